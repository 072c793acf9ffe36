package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// HeuristicWeights defines the weights for the recency/engagement scorer.
type HeuristicWeights struct {
	Recency    float64 `json:"recency"`    // Weight for the recency component (default: 0.6)
	Engagement float64 `json:"engagement"` // Weight for the engagement component (default: 0.4)
	Likes      float64 `json:"likes"`      // Like count weight inside engagement (default: 0.4)
	Comments   float64 `json:"comments"`   // Comment count weight inside engagement (default: 0.3)
	Shares     float64 `json:"shares"`     // Share count weight inside engagement (default: 0.3)
}

// HybridWeights defines the blend between relevance and heuristic scores.
type HybridWeights struct {
	Relevance float64 `json:"relevance"` // Weight for interest-profile similarity (default: 0.7)
	Heuristic float64 `json:"heuristic"` // Weight for the heuristic score (default: 0.3)
}

// DiversifyWeights defines the per-repeat penalties applied during
// diversification.
type DiversifyWeights struct {
	AuthorPenalty float64 `json:"author_penalty"` // Penalty per already-selected post by the same author (default: 0.2)
	TagPenalty    float64 `json:"tag_penalty"`    // Penalty per already-selected post sharing a tag (default: 0.1)
}

// InteractionWeights defines how much each interaction kind contributes to a
// user's interest profile.
type InteractionWeights struct {
	View    float64 `json:"view"`    // Passive view weight (default: 0.2)
	Like    float64 `json:"like"`    // Like weight (default: 1.0)
	Comment float64 `json:"comment"` // Comment weight (default: 1.5)
	Share   float64 `json:"share"`   // Share weight (default: 2.0)
}

// Weights holds all ranking weight configurations.
type Weights struct {
	Heuristic    HeuristicWeights   `json:"heuristic"`    // Recency/engagement scorer weights
	Hybrid       HybridWeights      `json:"hybrid"`       // Relevance/heuristic blend weights
	Diversify    DiversifyWeights   `json:"diversify"`    // Diversification penalties
	Interactions InteractionWeights `json:"interactions"` // Per-kind interest profile weights
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configurations
}

// DefaultWeights returns the default ranking weight configuration.
//
// Heuristic formula: score = (recency * 0.6) + (engagement * 0.4), where
// engagement = (likes * 0.4) + (comments * 0.3) + (shares * 0.3) over raw
// counts. Favors fresh posts while letting heavy engagement surface older
// ones.
//
// Hybrid formula: score = (relevance * 0.7) + (heuristic * 0.3). Relevance
// dominates once the user has enough history to trust it.
//
// Diversification: each repeat of an author shrinks a candidate's score by
// 20%, each repeat of a tag by 10%, multiplicatively.
//
// Interest profile: a share (2.0) says ten times more about a user's
// interests than a passive view (0.2); likes (1.0) and comments (1.5) sit in
// between.
func DefaultWeights() *Weights {
	return &Weights{
		Heuristic: HeuristicWeights{
			Recency:    0.6,
			Engagement: 0.4,
			Likes:      0.4,
			Comments:   0.3,
			Shares:     0.3,
		},
		Hybrid: HybridWeights{
			Relevance: 0.7,
			Heuristic: 0.3,
		},
		Diversify: DiversifyWeights{
			AuthorPenalty: 0.2,
			TagPenalty:    0.1,
		},
		Interactions: InteractionWeights{
			View:    0.2,
			Like:    1.0,
			Comment: 1.5,
			Share:   2.0,
		},
	}
}

// LoadCalibration loads ranking weights from a JSON calibration file.
// If the file doesn't exist or can't be read, returns default weights with an
// error. Partial configurations are merged with defaults for graceful
// degradation.
func LoadCalibration(filePath string) (*Weights, error) {
	// Return defaults if no file path provided
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	// Merge loaded weights with defaults to handle partial configurations
	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with base weights. Only non-zero
// values from the override are applied, allowing partial overrides in the
// calibration file.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	// Guard against nil base to avoid panics; fall back to defaults.
	if base == nil {
		return DefaultWeights()
	}

	// If there is no override provided, return a copy of the base.
	if override == nil {
		result := *base
		return &result
	}

	result := *base // Copy base

	if override.Heuristic.Recency != 0 {
		result.Heuristic.Recency = override.Heuristic.Recency
	}
	if override.Heuristic.Engagement != 0 {
		result.Heuristic.Engagement = override.Heuristic.Engagement
	}
	if override.Heuristic.Likes != 0 {
		result.Heuristic.Likes = override.Heuristic.Likes
	}
	if override.Heuristic.Comments != 0 {
		result.Heuristic.Comments = override.Heuristic.Comments
	}
	if override.Heuristic.Shares != 0 {
		result.Heuristic.Shares = override.Heuristic.Shares
	}

	if override.Hybrid.Relevance != 0 {
		result.Hybrid.Relevance = override.Hybrid.Relevance
	}
	if override.Hybrid.Heuristic != 0 {
		result.Hybrid.Heuristic = override.Hybrid.Heuristic
	}

	if override.Diversify.AuthorPenalty != 0 {
		result.Diversify.AuthorPenalty = override.Diversify.AuthorPenalty
	}
	if override.Diversify.TagPenalty != 0 {
		result.Diversify.TagPenalty = override.Diversify.TagPenalty
	}

	if override.Interactions.View != 0 {
		result.Interactions.View = override.Interactions.View
	}
	if override.Interactions.Like != 0 {
		result.Interactions.Like = override.Interactions.Like
	}
	if override.Interactions.Comment != 0 {
		result.Interactions.Comment = override.Interactions.Comment
	}
	if override.Interactions.Share != 0 {
		result.Interactions.Share = override.Interactions.Share
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	add := func(name string, def, got float64) {
		if got != def {
			overrides = append(overrides, fmt.Sprintf("%s: %.2f -> %.2f", name, def, got))
		}
	}

	add("heuristic.recency", defaults.Heuristic.Recency, loaded.Heuristic.Recency)
	add("heuristic.engagement", defaults.Heuristic.Engagement, loaded.Heuristic.Engagement)
	add("heuristic.likes", defaults.Heuristic.Likes, loaded.Heuristic.Likes)
	add("heuristic.comments", defaults.Heuristic.Comments, loaded.Heuristic.Comments)
	add("heuristic.shares", defaults.Heuristic.Shares, loaded.Heuristic.Shares)
	add("hybrid.relevance", defaults.Hybrid.Relevance, loaded.Hybrid.Relevance)
	add("hybrid.heuristic", defaults.Hybrid.Heuristic, loaded.Hybrid.Heuristic)
	add("diversify.author_penalty", defaults.Diversify.AuthorPenalty, loaded.Diversify.AuthorPenalty)
	add("diversify.tag_penalty", defaults.Diversify.TagPenalty, loaded.Diversify.TagPenalty)
	add("interactions.view", defaults.Interactions.View, loaded.Interactions.View)
	add("interactions.like", defaults.Interactions.Like, loaded.Interactions.Like)
	add("interactions.comment", defaults.Interactions.Comment, loaded.Interactions.Comment)
	add("interactions.share", defaults.Interactions.Share, loaded.Interactions.Share)

	if len(overrides) > 0 {
		slog.Info("loaded ranking calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded ranking calibration (using all defaults)")
	}
}
