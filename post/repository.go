package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PostRepository defines the data access surface the ranking pipeline needs
// for posts. Candidate selection itself belongs to collaborators; the
// pipeline only resolves posts referenced by interaction history.
type PostRepository interface {
	// Create inserts a new post with a generated UUID.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by its UUID.
	GetByID(ctx context.Context, id string) (*Post, error)

	// GetByIDs retrieves the posts for the given IDs. Missing IDs are
	// simply absent from the result map, not an error.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Post, error)

	// ListRecent retrieves up to limit posts ordered by created_at DESC,
	// id ASC (tie-breaker). A limit <= 0 means no limit. Useful for
	// assembling candidate pools.
	ListRecent(ctx context.Context, limit int) ([]*Post, error)
}

// InteractionRepository defines the interaction-log surface. Log is
// insert-if-absent on (user, post, kind): a duplicate write is a no-op,
// never an error, so concurrent overlapping page views are safe.
type InteractionRepository interface {
	// Log records an interaction. Returns true if a new record was
	// inserted, false if an identical (user, post, kind) record already
	// existed.
	Log(ctx context.Context, interaction *Interaction) (bool, error)

	// ListRecentByUser returns up to limit interactions for the user,
	// restricted to the given kinds (all kinds when empty), most recent
	// first. A limit <= 0 means no limit.
	ListRecentByUser(ctx context.Context, userID string, kinds []Kind, limit int) ([]*Interaction, error)

	// CountByUser returns the user's total interaction count across all
	// kinds.
	CountByUser(ctx context.Context, userID string) (int, error)
}

// InMemoryPostRepository is an in-memory implementation of PostRepository.
// Thread-safe via RWMutex.
type InMemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

// NewInMemoryPostRepository creates a new in-memory post repository.
func NewInMemoryPostRepository() *InMemoryPostRepository {
	return &InMemoryPostRepository{
		posts: make(map[string]*Post),
	}
}

// Create inserts a new post with a generated UUID.
func (r *InMemoryPostRepository) Create(_ context.Context, post *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	postCopy := copyPost(post)
	r.posts[post.ID] = postCopy

	return nil
}

// GetByID retrieves a post by its UUID.
func (r *InMemoryPostRepository) GetByID(_ context.Context, id string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}

	return copyPost(post), nil
}

// GetByIDs retrieves the posts for the given IDs. Missing IDs are absent
// from the result.
func (r *InMemoryPostRepository) GetByIDs(_ context.Context, ids []string) (map[string]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Post, len(ids))
	for _, id := range ids {
		if post, ok := r.posts[id]; ok {
			result[id] = copyPost(post)
		}
	}

	return result, nil
}

// ListRecent retrieves up to limit posts ordered by created_at DESC, id ASC.
func (r *InMemoryPostRepository) ListRecent(_ context.Context, limit int) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make([]*Post, 0, len(r.posts))
	for _, post := range r.posts {
		candidates = append(candidates, post)
	}

	// Sort by created_at DESC, then by ID ASC for tie-breaking.
	// This ensures stable ordering across calls.
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	// Return deep copies to prevent external mutation.
	copies := make([]*Post, len(candidates))
	for i, p := range candidates {
		copies[i] = copyPost(p)
	}

	return copies, nil
}

// copyPost creates a deep copy of a Post, including its tag slice.
func copyPost(p *Post) *Post {
	postCopy := *p
	if p.Tags != nil {
		postCopy.Tags = make([]string, len(p.Tags))
		copy(postCopy.Tags, p.Tags)
	}
	return &postCopy
}

// interactionKey creates a composite key using a null byte separator so
// that IDs containing the separator characters of a naive join cannot
// collide.
func interactionKey(userID, postID string, kind Kind) string {
	return userID + "\x00" + postID + "\x00" + string(kind)
}

// InMemoryInteractionRepository is an in-memory implementation of
// InteractionRepository. Thread-safe via RWMutex.
type InMemoryInteractionRepository struct {
	mu     sync.RWMutex
	keys   map[string]string // (user, post, kind) -> interaction ID
	byUser map[string][]*Interaction
}

// NewInMemoryInteractionRepository creates a new in-memory interaction
// repository.
func NewInMemoryInteractionRepository() *InMemoryInteractionRepository {
	return &InMemoryInteractionRepository{
		keys:   make(map[string]string),
		byUser: make(map[string][]*Interaction),
	}
}

// Log records an interaction with insert-if-absent semantics.
func (r *InMemoryInteractionRepository) Log(_ context.Context, interaction *Interaction) (bool, error) {
	if err := interaction.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := interactionKey(interaction.UserID, interaction.PostID, interaction.Kind)
	if _, exists := r.keys[key]; exists {
		return false, nil
	}

	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}

	stored := *interaction
	r.keys[key] = interaction.ID
	r.byUser[interaction.UserID] = append(r.byUser[interaction.UserID], &stored)

	return true, nil
}

// ListRecentByUser returns up to limit interactions for the user, restricted
// to the given kinds, most recent first.
func (r *InMemoryInteractionRepository) ListRecentByUser(_ context.Context, userID string, kinds []Kind, limit int) ([]*Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kindSet := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}

	var matched []*Interaction
	for _, interaction := range r.byUser[userID] {
		if len(kindSet) > 0 && !kindSet[interaction.Kind] {
			continue
		}
		matched = append(matched, interaction)
	}

	// Sort by created_at DESC, then by ID ASC for tie-breaking.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	copies := make([]*Interaction, len(matched))
	for i, in := range matched {
		interactionCopy := *in
		copies[i] = &interactionCopy
	}

	return copies, nil
}

// CountByUser returns the user's total interaction count across all kinds.
func (r *InMemoryInteractionRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byUser[userID]), nil
}
