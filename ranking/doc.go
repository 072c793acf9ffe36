// Package ranking provides the scoring, strategy selection, and
// diversification stages of the feed pipeline, with calibration support for
// deploy-time weight tuning.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := ranking.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		log.Warn("using default weights", "error", err)
//	}
//
//	// Score candidates heuristically
//	scored := make([]ranking.ScoredPost, len(posts))
//	for i, p := range posts {
//		scored[i] = ranking.ScoredPost{Post: p, Score: ranking.HeuristicScore(p, now, weights)}
//	}
//
//	// Or blend with relevance when the corpus supports it
//	score := ranking.HybridScore(relevance, heuristic, weights)
//
//	// Order and diversify
//	ranking.SortScored(scored)
//	final := ranking.Diversify(scored, weights)
//
// Strategy Selection:
//
// Content-similarity scoring is unreliable with few interactions or a small
// corpus, so SelectStrategy degrades to the pure recency/engagement heuristic
// below the configured thresholds. The heuristic path has no dependency on
// interaction history and is always computable.
//
// Calibration:
//
// The calibration system allows deploy-time tuning of ranking weights via
// JSON configuration files loaded at startup. This enables A/B testing and
// optimization without code changes (but requires a redeploy or restart to
// pick up new configuration). See configs/ranking.calibration.json for the
// default configuration.
package ranking
