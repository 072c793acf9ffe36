package ranking

// Diversify greedily re-orders a score-ordered list to break up homogeneous
// runs of the same author or tag. At each step it selects the remaining post
// with the highest penalized score:
//
//	penalized = score * (1 - authorPenalty*authorCount) * (1 - tagPenalty*sum(tagCounts))
//
// where authorCount and tagCounts track already-selected posts. Both
// accumulators are updated after each selection, so the first post from any
// author or tag is never penalized. Ties in penalized score are broken by
// scan order (first found wins), keeping the pass deterministic.
//
// The output is always a permutation of the input: nothing is dropped or
// duplicated. Selection is O(n^2), which is acceptable at feed-page scale
// (tens to low hundreds of candidates); larger pools should be truncated to
// a top-K score window before this pass rather than re-architecting it.
func Diversify(scored []ScoredPost, weights *Weights) []ScoredPost {
	if weights == nil {
		weights = DefaultWeights()
	}

	authorPenalty := weights.Diversify.AuthorPenalty
	tagPenalty := weights.Diversify.TagPenalty

	remaining := make([]ScoredPost, len(scored))
	copy(remaining, scored)

	result := make([]ScoredPost, 0, len(scored))
	authorCounts := make(map[string]int)
	tagCounts := make(map[string]int)

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := penalizedScore(remaining[0], authorCounts, tagCounts, authorPenalty, tagPenalty)

		for i := 1; i < len(remaining); i++ {
			// Strictly greater: on ties the first candidate found
			// in scan order wins.
			if s := penalizedScore(remaining[i], authorCounts, tagCounts, authorPenalty, tagPenalty); s > bestScore {
				bestIdx = i
				bestScore = s
			}
		}

		selected := remaining[bestIdx]
		result = append(result, selected)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		// Accumulators update after selection, never before.
		authorCounts[selected.Post.AuthorID]++
		for _, tag := range selected.Post.Tags {
			tagCounts[tag]++
		}
	}

	return result
}

// penalizedScore shrinks a post's score multiplicatively for each
// already-selected post sharing its author or tags. Penalty factors are
// clamped at zero so heavily repeated authors/tags cannot flip a positive
// score negative and leapfrog unpenalized posts.
func penalizedScore(sp ScoredPost, authorCounts, tagCounts map[string]int, authorPenalty, tagPenalty float64) float64 {
	authorFactor := 1 - authorPenalty*float64(authorCounts[sp.Post.AuthorID])
	if authorFactor < 0 {
		authorFactor = 0
	}

	var tagRepeats float64
	for _, tag := range sp.Post.Tags {
		tagRepeats += float64(tagCounts[tag])
	}
	tagFactor := 1 - tagPenalty*tagRepeats
	if tagFactor < 0 {
		tagFactor = 0
	}

	return sp.Score * authorFactor * tagFactor
}
