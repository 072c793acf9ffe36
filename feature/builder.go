package feature

import (
	"time"

	"github.com/onnwee/feedrank/influence"
	"github.com/onnwee/feedrank/post"
	"github.com/onnwee/feedrank/textindex"
)

// PostFeatures holds the assembled feature vector for one post: the TF-IDF
// text block plus one scaled recency value, three scaled engagement values,
// and the author-influence slot.
type PostFeatures struct {
	Text      []float64 // TF-IDF block in the request's shared term space
	Recency   float64   // [0, 1], newer posts near 1
	Likes     float64   // [0, 1], batch-relative
	Comments  float64   // [0, 1], batch-relative
	Shares    float64   // [0, 1], batch-relative
	Influence float64   // [0, 1], 0 without a reputation source
}

// Concat flattens the features into a single vector: text block first, then
// recency, likes, comments, shares, influence. The order is fixed; consumers
// that slice the text block back out rely on it.
func (f *PostFeatures) Concat() []float64 {
	vec := make([]float64, 0, len(f.Text)+5)
	vec = append(vec, f.Text...)
	vec = append(vec, f.Recency, f.Likes, f.Comments, f.Shares, f.Influence)
	return vec
}

// Builder assembles per-post feature vectors for one candidate batch.
// The Vectorizer must already be fitted for the current request; Influence
// may be nil, in which case the influence slot stays zero.
type Builder struct {
	Vectorizer       *textindex.Vectorizer
	Influence        influence.Source
	InfluenceEnabled bool
	Now              time.Time
}

// NewBuilder creates a Builder over a fitted vectorizer. The influence slot
// is fed from src only when the influence feature flag is enabled.
func NewBuilder(v *textindex.Vectorizer, src influence.Source, now time.Time) *Builder {
	return &Builder{
		Vectorizer:       v,
		Influence:        src,
		InfluenceEnabled: influence.IsEnabled(),
		Now:              now,
	}
}

// Build returns one PostFeatures per post. Every scaled column and the text
// block are computed over this batch, so scaling is relative to the current
// candidate set. Empty input returns an empty slice, not an error.
func (b *Builder) Build(posts []*post.Post) []PostFeatures {
	if len(posts) == 0 {
		return []PostFeatures{}
	}

	texts := make([]string, len(posts))
	ages := make([]time.Duration, len(posts))
	likes := make([]float64, len(posts))
	comments := make([]float64, len(posts))
	shares := make([]float64, len(posts))

	for i, p := range posts {
		texts[i] = p.Text
		ages[i] = b.Now.Sub(p.CreatedAt)
		likes[i] = float64(p.LikeCount)
		comments[i] = float64(p.CommentCount)
		shares[i] = float64(p.ShareCount)
	}

	textRows := b.Vectorizer.Transform(texts)
	recency := RecencyScale(ages)
	likesScaled := MinMaxScale(likes)
	commentsScaled := MinMaxScale(comments)
	sharesScaled := MinMaxScale(shares)

	features := make([]PostFeatures, len(posts))
	for i, p := range posts {
		features[i] = PostFeatures{
			Text:      textRows[i],
			Recency:   recency[i],
			Likes:     likesScaled[i],
			Comments:  commentsScaled[i],
			Shares:    sharesScaled[i],
			Influence: b.influenceScore(p.AuthorID),
		}
	}

	return features
}

// influenceScore returns the author-influence slot value. The slot stays
// zero when the feature flag is off or no source is wired.
func (b *Builder) influenceScore(authorID string) float64 {
	if !b.InfluenceEnabled || b.Influence == nil {
		return 0
	}
	return b.Influence.Score(authorID)
}
