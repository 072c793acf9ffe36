// Package config provides configuration loading and validation for the feed
// ranking library. It uses koanf to merge environment variables with optional
// file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all tunables for the ranking pipeline and its collaborators.
type Config struct {
	// Environment
	Env string `koanf:"env"`

	// Strategy thresholds
	MinCandidates   int `koanf:"min_candidates"`   // Smallest pool the hybrid path handles
	MinInteractions int `koanf:"min_interactions"` // Smallest history the hybrid path handles

	// Vectorization
	MaxFeatures int `koanf:"max_features"` // Vocabulary cap for TF-IDF

	// Interest profile
	ProfileInteractionLimit int `koanf:"profile_interaction_limit"`

	// Pagination
	MaxPageLimit int `koanf:"max_page_limit"` // Hard cap regardless of requested limit

	// Ranking weight calibration file (JSON); empty uses defaults
	CalibrationPath string `koanf:"calibration_path"`

	// Collaborator stores (optional; in-memory repositories need neither)
	DatabaseURL string `koanf:"database_url"`
	RedisAddr   string `koanf:"redis_addr"`

	// View dedup mark lifetime in seconds (Redis decorator)
	ViewDedupTTLSeconds int `koanf:"view_dedup_ttl_seconds"`

	// Feature Flags
	InfluenceEnabled bool `koanf:"influence_enabled"` // Enable author-influence feature slot
}

// Configuration validation errors.
var (
	ErrInvalidMinCandidates   = errors.New("MIN_CANDIDATES must be positive")
	ErrInvalidMinInteractions = errors.New("MIN_INTERACTIONS must be positive")
	ErrInvalidMaxFeatures     = errors.New("MAX_FEATURES must be positive")
	ErrInvalidProfileLimit    = errors.New("PROFILE_INTERACTION_LIMIT must be positive")
	ErrInvalidMaxPageLimit    = errors.New("MAX_PAGE_LIMIT must be positive")
	ErrInvalidInt             = errors.New("value must be a valid integer")
)

// Default values for all tunables.
const (
	DefaultEnv                     = "development"
	DefaultMinCandidates           = 50
	DefaultMinInteractions         = 20
	DefaultMaxFeatures             = 5000
	DefaultProfileInteractionLimit = 100
	DefaultMaxPageLimit            = 50
	DefaultViewDedupTTLSeconds     = 86400
	DefaultInfluenceEnabled        = false
)

// Load reads configuration from environment variables and an optional YAML
// config file. Environment variables (FEEDRANK_*) take precedence over file
// values. Returns the loaded config and a slice of validation errors (empty
// if valid). If a config file path is provided and the file cannot be loaded,
// an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	intField := func(envKey, koanfKey string, defaultVal int) int {
		v, err := getEnvIntOrDefault(envKey, k.Int(koanfKey), defaultVal)
		if err != nil {
			loadErrs = append(loadErrs, err)
		}
		return v
	}

	cfg := &Config{
		Env:                     getEnvOrDefault("FEEDRANK_ENV", k.String("env"), DefaultEnv),
		MinCandidates:           intField("FEEDRANK_MIN_CANDIDATES", "min_candidates", DefaultMinCandidates),
		MinInteractions:         intField("FEEDRANK_MIN_INTERACTIONS", "min_interactions", DefaultMinInteractions),
		MaxFeatures:             intField("FEEDRANK_MAX_FEATURES", "max_features", DefaultMaxFeatures),
		ProfileInteractionLimit: intField("FEEDRANK_PROFILE_INTERACTION_LIMIT", "profile_interaction_limit", DefaultProfileInteractionLimit),
		MaxPageLimit:            intField("FEEDRANK_MAX_PAGE_LIMIT", "max_page_limit", DefaultMaxPageLimit),
		ViewDedupTTLSeconds:     intField("FEEDRANK_VIEW_DEDUP_TTL_SECONDS", "view_dedup_ttl_seconds", DefaultViewDedupTTLSeconds),
		CalibrationPath:         getEnvOrKoanf("FEEDRANK_CALIBRATION_PATH", k, "calibration_path"),
		DatabaseURL:             getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:               getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		InfluenceEnabled:        getEnvBoolOrDefault("FEEDRANK_INFLUENCE_ENABLED", k, "influence_enabled", DefaultInfluenceEnabled),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks that all tunables are within usable ranges.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.MinCandidates <= 0 {
		errs = append(errs, ErrInvalidMinCandidates)
	}
	if c.MinInteractions <= 0 {
		errs = append(errs, ErrInvalidMinInteractions)
	}
	if c.MaxFeatures <= 0 {
		errs = append(errs, ErrInvalidMaxFeatures)
	}
	if c.ProfileInteractionLimit <= 0 {
		errs = append(errs, ErrInvalidProfileLimit)
	}
	if c.MaxPageLimit <= 0 {
		errs = append(errs, ErrInvalidMaxPageLimit)
	}

	return errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
// Note: a zero value in a YAML file falls back to the default; zero is not a usable value for any of these tunables.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, ErrInvalidInt)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault returns the feature flag from the environment if set,
// otherwise the koanf value, or default. Env var takes precedence over file
// config.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) bool {
	result := defaultVal
	if k.Exists(koanfKey) {
		result = k.Bool(koanfKey)
	}
	if val := os.Getenv(envKey); val != "" {
		switch val {
		case "true", "TRUE", "True", "1", "yes", "on":
			result = true
		case "false", "FALSE", "False", "0", "no", "off":
			result = false
		}
	}
	return result
}
