// Package influence provides the author-influence scoring extension point
// used by the post feature builder. The feature-vector contract reserves one
// slot for an author-reputation signal; until a reputation model exists the
// slot is populated by ZeroSource. Substituting a real Source changes the
// signal without touching feature assembly.
package influence

import (
	"errors"
	"sync"
)

// ErrInvalidScore is returned when a configured influence score falls
// outside [0, 1].
var ErrInvalidScore = errors.New("invalid influence score: must be between 0.0 and 1.0")

// Source supplies an influence score for an author. Implementations must be
// safe for concurrent use and return values in [0, 1].
type Source interface {
	// Score returns the influence score for the author, 0 when unknown.
	Score(authorID string) float64
}

// ValidateScore checks that a score is within [0, 1].
func ValidateScore(score float64) error {
	if score < 0.0 || score > 1.0 {
		return ErrInvalidScore
	}
	return nil
}

// ZeroSource is the default Source: every author scores 0. This keeps the
// reserved feature slot populated and documented rather than silently absent.
type ZeroSource struct{}

// Score always returns 0.
func (ZeroSource) Score(string) float64 {
	return 0
}

// StaticSource is a map-backed Source for tests and offline backfills.
// Thread-safe via RWMutex.
type StaticSource struct {
	mu     sync.RWMutex
	scores map[string]float64
}

// NewStaticSource creates an empty StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{scores: make(map[string]float64)}
}

// Set stores the score for an author. Returns ErrInvalidScore when the score
// is out of bounds.
func (s *StaticSource) Set(authorID string, score float64) error {
	if err := ValidateScore(score); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[authorID] = score

	return nil
}

// Score returns the stored score for the author, 0 when unknown.
func (s *StaticSource) Score(authorID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[authorID]
}
