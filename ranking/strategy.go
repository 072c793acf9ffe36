package ranking

import "sort"

// Strategy identifies which scoring path a ranking request uses.
type Strategy string

const (
	// StrategyHeuristic scores by recency and engagement only.
	StrategyHeuristic Strategy = "heuristic"
	// StrategyHybrid blends interest-profile relevance with the heuristic.
	StrategyHybrid Strategy = "hybrid"
)

// Default thresholds for the strategy switch.
const (
	// DefaultMinCandidates is the smallest candidate pool the hybrid
	// path is trusted with.
	DefaultMinCandidates = 50
	// DefaultMinInteractions is the smallest interaction history the
	// hybrid path is trusted with.
	DefaultMinInteractions = 20
)

// SelectStrategy decides the scoring path for one request. The hybrid path
// needs enough candidates for a meaningful term space and enough interaction
// history for a meaningful profile; below either threshold the request
// degrades gracefully to the always-computable heuristic. Thresholds of zero
// or less fall back to the defaults.
func SelectStrategy(candidateCount, interactionCount, minCandidates, minInteractions int) Strategy {
	if minCandidates <= 0 {
		minCandidates = DefaultMinCandidates
	}
	if minInteractions <= 0 {
		minInteractions = DefaultMinInteractions
	}

	if candidateCount < minCandidates || interactionCount < minInteractions {
		return StrategyHeuristic
	}

	return StrategyHybrid
}

// SortScored orders posts by score descending. The sort is stable: posts
// with equal scores keep their original candidate order, which downstream
// pagination and diversification rely on for determinism.
func SortScored(scored []ScoredPost) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
