package textindex

import (
	"math"
	"testing"
)

// TestFit_VocabularyConstruction tests vocabulary building and the feature
// cap.
func TestFit_VocabularyConstruction(t *testing.T) {
	docs := []string{
		"gopher gopher channels",
		"channels select",
		"gopher runtime",
	}

	v := Fit(docs, 0)

	if v.Dims() != 4 {
		t.Fatalf("expected 4 terms, got %d: %v", v.Dims(), v.Terms())
	}

	// Columns are assigned lexicographically.
	expected := []string{"channels", "gopher", "runtime", "select"}
	for i, term := range v.Terms() {
		if term != expected[i] {
			t.Errorf("term[%d] = %q, want %q", i, term, expected[i])
		}
	}
}

// TestFit_MaxFeaturesCap tests that the cap keeps the most frequent terms
// with a deterministic tie-break.
func TestFit_MaxFeaturesCap(t *testing.T) {
	docs := []string{
		"alpha alpha alpha beta beta gamma delta",
	}

	v := Fit(docs, 2)

	if v.Dims() != 2 {
		t.Fatalf("expected 2 terms after cap, got %d", v.Dims())
	}

	terms := v.Terms()
	if terms[0] != "alpha" || terms[1] != "beta" {
		t.Errorf("expected [alpha beta], got %v", terms)
	}
}

// TestFit_CapTieBreak tests that equally frequent terms are kept in
// lexicographic order, so fitting is deterministic.
func TestFit_CapTieBreak(t *testing.T) {
	docs := []string{"zebra apple mango"}

	v := Fit(docs, 2)

	terms := v.Terms()
	if len(terms) != 2 || terms[0] != "apple" || terms[1] != "mango" {
		t.Errorf("expected [apple mango], got %v", terms)
	}
}

// TestTransform_TFIDFWeighting tests that locally frequent, globally rare
// terms outweigh terms appearing in every document.
func TestTransform_TFIDFWeighting(t *testing.T) {
	docs := []string{
		"music festival",
		"music hiking",
		"music painting",
	}

	v := Fit(docs, 0)
	rows := v.Transform(docs)

	terms := v.Terms()
	col := func(term string) int {
		for i, tm := range terms {
			if tm == term {
				return i
			}
		}
		t.Fatalf("term %q not in vocabulary", term)
		return -1
	}

	// In doc 0, "festival" (rare) must outweigh "music" (present in
	// every document) at equal local frequency.
	if rows[0][col("festival")] <= rows[0][col("music")] {
		t.Errorf("expected rare term to outweigh ubiquitous term: festival=%f music=%f",
			rows[0][col("festival")], rows[0][col("music")])
	}
}

// TestTransform_RowNormalization tests that non-zero rows are unit length.
func TestTransform_RowNormalization(t *testing.T) {
	docs := []string{
		"jazz concert downtown",
		"football highlights",
	}

	v := Fit(docs, 0)
	rows := v.Transform(docs)

	for i, row := range rows {
		var sumSquares float64
		for _, val := range row {
			if val < 0 {
				t.Errorf("row %d has negative weight %f", i, val)
			}
			sumSquares += val * val
		}
		if math.Abs(sumSquares-1.0) > 1e-9 {
			t.Errorf("row %d not unit length: |v|^2 = %f", i, sumSquares)
		}
	}
}

// TestTransform_EmptyAndUnknownDocs tests zero rows for empty documents and
// documents with no in-vocabulary tokens.
func TestTransform_EmptyAndUnknownDocs(t *testing.T) {
	v := Fit([]string{"jazz concert"}, 0)

	rows := v.Transform([]string{"", "quantum entanglement"})

	for i, row := range rows {
		for _, val := range row {
			if val != 0 {
				t.Errorf("expected zero row for doc %d, got %v", i, row)
			}
		}
	}
}

// TestTransform_Deterministic tests that transforming the same batch twice
// produces identical rows.
func TestTransform_Deterministic(t *testing.T) {
	docs := []string{
		"late night jazz sessions",
		"morning trail running",
		"jazz brunch recipes",
	}

	v := Fit(docs, 0)
	first := v.Transform(docs)
	second := v.Transform(docs)

	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("row %d col %d differs between runs: %f vs %f",
					i, j, first[i][j], second[i][j])
			}
		}
	}
}

// TestCosine tests the similarity bounds and degenerate inputs.
func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float64{0.6, 0.8},
			b:        []float64{0.6, 0.8},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float64{1, 0},
			b:        []float64{0, 1},
			expected: 0.0,
		},
		{
			name:     "zero vector",
			a:        []float64{0, 0},
			b:        []float64{1, 1},
			expected: 0.0,
		},
		{
			name:     "mismatched lengths",
			a:        []float64{1, 0, 0},
			b:        []float64{1, 0},
			expected: 0.0,
		},
		{
			name:     "magnitude independent",
			a:        []float64{2, 2},
			b:        []float64{5, 5},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Cosine() = %f, want %f", got, tt.expected)
			}
		})
	}
}

// TestCosine_BoundsForTFIDFRows tests that cosine over transformed rows
// stays within [0, 1], since TF-IDF weights are non-negative.
func TestCosine_BoundsForTFIDFRows(t *testing.T) {
	docs := []string{
		"indie rock show tonight",
		"rock climbing gym opens",
		"city council budget vote",
	}

	v := Fit(docs, 0)
	rows := v.Transform(docs)

	for i := range rows {
		for j := range rows {
			score := Cosine(rows[i], rows[j])
			if score < 0 || score > 1+1e-9 {
				t.Errorf("Cosine(rows[%d], rows[%d]) = %f, outside [0, 1]", i, j, score)
			}
		}
	}
}
