package ranking

import (
	"testing"

	"github.com/onnwee/feedrank/post"
)

// TestSelectStrategy tests the cold-start/sparse-data switch, including the
// exact threshold boundaries.
func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name             string
		candidateCount   int
		interactionCount int
		expected         Strategy
	}{
		{
			name:             "both above thresholds",
			candidateCount:   50,
			interactionCount: 20,
			expected:         StrategyHybrid,
		},
		{
			name:             "small candidate pool",
			candidateCount:   49,
			interactionCount: 100,
			expected:         StrategyHeuristic,
		},
		{
			name:             "thin interaction history",
			candidateCount:   200,
			interactionCount: 19,
			expected:         StrategyHeuristic,
		},
		{
			name:             "both below thresholds",
			candidateCount:   5,
			interactionCount: 0,
			expected:         StrategyHeuristic,
		},
		{
			name:             "zero interactions",
			candidateCount:   500,
			interactionCount: 0,
			expected:         StrategyHeuristic,
		},
		{
			name:             "well above thresholds",
			candidateCount:   500,
			interactionCount: 500,
			expected:         StrategyHybrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectStrategy(tt.candidateCount, tt.interactionCount, 0, 0)
			if got != tt.expected {
				t.Errorf("SelectStrategy(%d, %d) = %s, want %s",
					tt.candidateCount, tt.interactionCount, got, tt.expected)
			}
		})
	}
}

// TestSelectStrategy_CustomThresholds tests explicit threshold overrides.
func TestSelectStrategy_CustomThresholds(t *testing.T) {
	if got := SelectStrategy(10, 5, 10, 5); got != StrategyHybrid {
		t.Errorf("expected hybrid at custom thresholds, got %s", got)
	}
	if got := SelectStrategy(9, 5, 10, 5); got != StrategyHeuristic {
		t.Errorf("expected heuristic below custom candidate threshold, got %s", got)
	}
}

// TestSortScored tests descending order with a stable tie-break by original
// candidate order.
func TestSortScored(t *testing.T) {
	scored := []ScoredPost{
		{Post: &post.Post{ID: "a"}, Score: 0.5},
		{Post: &post.Post{ID: "b"}, Score: 0.9},
		{Post: &post.Post{ID: "c"}, Score: 0.5},
		{Post: &post.Post{ID: "d"}, Score: 0.1},
		{Post: &post.Post{ID: "e"}, Score: 0.5},
	}

	SortScored(scored)

	gotOrder := make([]string, len(scored))
	for i, sp := range scored {
		gotOrder[i] = sp.Post.ID
	}

	// b first; the three 0.5 posts keep their original relative order
	// (a, c, e); d last.
	expected := []string{"b", "a", "c", "e", "d"}
	for i := range expected {
		if gotOrder[i] != expected[i] {
			t.Fatalf("order = %v, want %v", gotOrder, expected)
		}
	}
}
