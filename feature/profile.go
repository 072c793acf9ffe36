package feature

import (
	"context"
	"fmt"

	"github.com/onnwee/feedrank/post"
	"github.com/onnwee/feedrank/textindex"
)

// DefaultProfileInteractionLimit caps how many recent interactions feed the
// interest profile.
const DefaultProfileInteractionLimit = 100

// KindWeights maps interaction kinds to their contribution weight in the
// interest profile. Stronger engagement signals weigh more.
type KindWeights map[post.Kind]float64

// DefaultKindWeights returns the reference weighting: a share says far more
// about a user's interests than a passive view.
func DefaultKindWeights() KindWeights {
	return KindWeights{
		post.KindView:    0.2,
		post.KindLike:    1.0,
		post.KindComment: 1.5,
		post.KindShare:   2.0,
	}
}

// WeightedDoc pairs one interacted post's text with the weight of the
// interaction that referenced it.
type WeightedDoc struct {
	Text   string
	Weight float64
}

// ProfileBuilder derives a user's interest profile from their recent
// interaction history.
type ProfileBuilder struct {
	Interactions post.InteractionRepository
	Posts        post.PostRepository
	Weights      KindWeights
	Limit        int
}

// NewProfileBuilder creates a ProfileBuilder with the default kind weights
// and interaction limit.
func NewProfileBuilder(interactions post.InteractionRepository, posts post.PostRepository) *ProfileBuilder {
	return &ProfileBuilder{
		Interactions: interactions,
		Posts:        posts,
		Weights:      DefaultKindWeights(),
		Limit:        DefaultProfileInteractionLimit,
	}
}

// RecentDocs fetches the user's most recent profile-relevant interactions
// (views, likes, comments, shares) and resolves them to weighted documents.
// Interactions whose referenced post is missing or has empty text are
// skipped. An empty result is the cold-start case, not an error.
func (b *ProfileBuilder) RecentDocs(ctx context.Context, userID string) ([]WeightedDoc, error) {
	limit := b.Limit
	if limit <= 0 {
		limit = DefaultProfileInteractionLimit
	}

	interactions, err := b.Interactions.ListRecentByUser(ctx, userID, post.ProfileKinds, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	if len(interactions) == 0 {
		return nil, nil
	}

	postIDs := make([]string, len(interactions))
	for i, in := range interactions {
		postIDs[i] = in.PostID
	}

	referenced, err := b.Posts.GetByIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interacted posts: %w", err)
	}

	weights := b.Weights
	if weights == nil {
		weights = DefaultKindWeights()
	}

	var docs []WeightedDoc
	for _, in := range interactions {
		p, ok := referenced[in.PostID]
		if !ok || p.Text == "" {
			continue
		}
		w, ok := weights[in.Kind]
		if !ok || w <= 0 {
			continue
		}
		docs = append(docs, WeightedDoc{Text: p.Text, Weight: w})
	}

	return docs, nil
}

// BuildProfile computes the weight-normalized average of the documents'
// TF-IDF vectors in the fitted term space: sum(weight_i * vector_i) /
// sum(weight_i). With no documents it returns the zero vector of the space's
// dimensionality — the deliberate cold-start fallback.
func BuildProfile(docs []WeightedDoc, v *textindex.Vectorizer) []float64 {
	profile := make([]float64, v.Dims())
	if len(docs) == 0 {
		return profile
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	rows := v.Transform(texts)

	var totalWeight float64
	for i, d := range docs {
		for col, val := range rows[i] {
			profile[col] += d.Weight * val
		}
		totalWeight += d.Weight
	}

	if totalWeight == 0 {
		// All weights filtered out; same fallback as no documents.
		return make([]float64, v.Dims())
	}

	for col := range profile {
		profile[col] /= totalWeight
	}

	return profile
}
