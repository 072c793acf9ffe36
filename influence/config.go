package influence

import "sync"

// configCache holds the cached feature flag state for influence-weighted
// features.
var configCache struct {
	mu      sync.RWMutex
	enabled *bool
}

// SetEnabled sets the influence feature flag state.
// This should be called once during application initialization.
// Thread-safe via mutex.
func SetEnabled(enabled bool) {
	configCache.mu.Lock()
	defer configCache.mu.Unlock()
	configCache.enabled = &enabled
}

// IsEnabled returns whether influence-weighted features are enabled.
// Returns false if not initialized (safe default).
// Thread-safe via mutex.
func IsEnabled() bool {
	configCache.mu.RLock()
	defer configCache.mu.RUnlock()
	if configCache.enabled == nil {
		return false // Safe default when not initialized
	}
	return *configCache.enabled
}
