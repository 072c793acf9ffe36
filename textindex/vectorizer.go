package textindex

import (
	"math"
	"sort"
)

// DefaultMaxFeatures caps the vocabulary size when no explicit cap is given.
const DefaultMaxFeatures = 5000

// Vectorizer holds a vocabulary and document frequencies fitted over one
// batch of documents. It is a short-lived value scoped to a single ranking
// request: term positions are only meaningful within the batch it was fitted
// on, so callers must fit once per request and transform every document set
// through the same instance.
type Vectorizer struct {
	vocab map[string]int // term -> column index
	terms []string       // column index -> term
	idf   []float64      // column index -> inverse document frequency
}

// Fit builds a vocabulary and IDF table over docs. The vocabulary is capped
// at maxFeatures terms, keeping the most frequent terms across the batch with
// a lexicographic tie-break so fitting is deterministic. A maxFeatures of
// zero or less applies DefaultMaxFeatures.
func Fit(docs []string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	totalCounts := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		tokens := Tokenize(doc)
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			totalCounts[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	// Order candidate terms by batch frequency, then lexicographically,
	// so the cap keeps a deterministic set.
	candidates := make([]string, 0, len(totalCounts))
	for term := range totalCounts {
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if totalCounts[candidates[i]] != totalCounts[candidates[j]] {
			return totalCounts[candidates[i]] > totalCounts[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}

	// Columns are assigned in lexicographic order for stable indexing.
	sort.Strings(candidates)

	v := &Vectorizer{
		vocab: make(map[string]int, len(candidates)),
		terms: candidates,
		idf:   make([]float64, len(candidates)),
	}

	n := float64(len(docs))
	for i, term := range candidates {
		v.vocab[term] = i
		// Smoothed IDF: strictly positive, near 1 for terms in every
		// document, growing as terms get rarer.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return v
}

// Dims returns the dimensionality of the fitted term space.
func (v *Vectorizer) Dims() int {
	return len(v.terms)
}

// Terms returns the fitted vocabulary in column order.
func (v *Vectorizer) Terms() []string {
	terms := make([]string, len(v.terms))
	copy(terms, v.terms)
	return terms
}

// Transform maps each document into the fitted term space. Each row is the
// document's term frequencies weighted by IDF and L2-normalized. Documents
// with no in-vocabulary tokens produce all-zero rows. Term weights are always
// non-negative.
func (v *Vectorizer) Transform(docs []string) [][]float64 {
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		rows[i] = v.transformOne(doc)
	}
	return rows
}

func (v *Vectorizer) transformOne(doc string) []float64 {
	row := make([]float64, len(v.terms))
	tokens := Tokenize(doc)
	if len(tokens) == 0 {
		return row
	}

	counts := make(map[int]int)
	for _, tok := range tokens {
		if col, ok := v.vocab[tok]; ok {
			counts[col]++
		}
	}

	total := float64(len(tokens))
	var sumSquares float64
	for col, count := range counts {
		w := (float64(count) / total) * v.idf[col]
		row[col] = w
		sumSquares += w * w
	}

	// L2-normalize so cosine similarity reduces to a dot product of
	// unit vectors. All-zero rows stay zero.
	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for col := range counts {
			row[col] /= norm
		}
	}

	return row
}

// Cosine computes the cosine similarity between two equal-length vectors.
// Returns 0 when either vector has zero magnitude, so a cold-start zero
// profile yields zero relevance rather than NaN.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
