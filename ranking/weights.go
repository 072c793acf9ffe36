package ranking

import (
	"time"

	"github.com/onnwee/feedrank/post"
	"github.com/onnwee/feedrank/textindex"
)

// heuristicWindow is the recency horizon for the heuristic scorer. Posts
// older than this score zero recency.
const heuristicWindow = 7 * 24 * time.Hour

// ScoredPost annotates a post with a request-scoped score. The annotation
// exists only for the duration of one ranking request and is never persisted.
type ScoredPost struct {
	Post  *post.Post
	Score float64
}

// RecencyScore computes the heuristic recency component: 1 at publish time,
// decaying linearly to 0 at seven days.
//
// Formula: max(0, 1 - hours_since_post / 168)
func RecencyScore(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	if age <= 0 {
		return 1.0
	}

	score := 1.0 - age.Hours()/heuristicWindow.Hours()
	if score < 0 {
		return 0.0
	}

	return score
}

// EngagementScore computes the heuristic engagement component from raw
// counts. Intentionally unscaled: this path must be computable without any
// batch context.
//
// Default formula: 0.4*likes + 0.3*comments + 0.3*shares
func EngagementScore(p *post.Post, weights *Weights) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	return float64(p.LikeCount)*weights.Heuristic.Likes +
		float64(p.CommentCount)*weights.Heuristic.Comments +
		float64(p.ShareCount)*weights.Heuristic.Shares
}

// HeuristicScore computes the recency/engagement score for one post. It has
// no dependency on interaction history, making it the guaranteed fallback
// for cold-start users and small corpora.
//
// Default formula: 0.6*recency + 0.4*engagement
func HeuristicScore(p *post.Post, now time.Time, weights *Weights) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	return RecencyScore(p.CreatedAt, now)*weights.Heuristic.Recency +
		EngagementScore(p, weights)*weights.Heuristic.Engagement
}

// RelevanceScores computes the cosine similarity between each candidate text
// vector and the user's interest profile. Candidates and profile must share
// one fitted term space. Scores are in [0, 1] for non-negative term weights;
// a zero profile (cold start) yields all zeros. Empty input yields an empty
// result.
func RelevanceScores(candidates [][]float64, profile []float64) []float64 {
	scores := make([]float64, len(candidates))
	for i, vec := range candidates {
		scores[i] = textindex.Cosine(vec, profile)
	}
	return scores
}

// HybridScore blends a relevance score with a heuristic score, both computed
// over the same candidate batch.
//
// Default formula: 0.7*relevance + 0.3*heuristic
func HybridScore(relevance, heuristic float64, weights *Weights) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	return relevance*weights.Hybrid.Relevance + heuristic*weights.Hybrid.Heuristic
}
