package post

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultViewDedupTTL bounds how long a view mark lives in Redis. Marks only
// save a round trip to the durable store; the store's unique constraint is
// the source of truth, so expiry is safe.
const DefaultViewDedupTTL = 24 * time.Hour

// DedupingInteractionRepository decorates an InteractionRepository with a
// Redis SETNX guard on view writes. Page renders re-log the same views
// constantly; the guard answers most of those duplicates without touching
// the durable store. Redis failures fall through to the inner repository,
// which remains idempotent on its own.
type DedupingInteractionRepository struct {
	inner  InteractionRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewDedupingInteractionRepository creates a dedup decorator around inner.
// A zero ttl falls back to DefaultViewDedupTTL.
func NewDedupingInteractionRepository(inner InteractionRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *DedupingInteractionRepository {
	if ttl <= 0 {
		ttl = DefaultViewDedupTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DedupingInteractionRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// dedupKey builds the Redis key marking one (user, post, kind) write.
func dedupKey(userID, postID string, kind Kind) string {
	return "feedrank:seen:" + userID + ":" + postID + ":" + string(kind)
}

// Log records an interaction, short-circuiting when the Redis mark shows the
// same (user, post, kind) was already written recently.
func (r *DedupingInteractionRepository) Log(ctx context.Context, interaction *Interaction) (bool, error) {
	if err := interaction.Validate(); err != nil {
		return false, err
	}

	key := dedupKey(interaction.UserID, interaction.PostID, interaction.Kind)
	set, err := r.client.SetNX(ctx, key, 1, r.ttl).Result()
	if err != nil {
		// Redis being down must not block logging; the inner store
		// dedupes on its unique constraint anyway.
		r.logger.Warn("view dedup mark failed, falling through",
			"user_id", interaction.UserID,
			"post_id", interaction.PostID,
			"error", err)
		return r.inner.Log(ctx, interaction)
	}

	if !set {
		// Mark already present: the write happened within the TTL.
		return false, nil
	}

	return r.inner.Log(ctx, interaction)
}

// ListRecentByUser delegates to the inner repository.
func (r *DedupingInteractionRepository) ListRecentByUser(ctx context.Context, userID string, kinds []Kind, limit int) ([]*Interaction, error) {
	return r.inner.ListRecentByUser(ctx, userID, kinds, limit)
}

// CountByUser delegates to the inner repository.
func (r *DedupingInteractionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	return r.inner.CountByUser(ctx, userID)
}
