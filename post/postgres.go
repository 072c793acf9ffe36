package post

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/onnwee/feedrank/tracing"
)

// PostgresPostRepository is a PostgreSQL-backed implementation of
// PostRepository using database/sql with the pq driver.
type PostgresPostRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPostRepository creates a new PostgreSQL post repository.
func NewPostgresPostRepository(db *sql.DB, logger *slog.Logger) *PostgresPostRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPostRepository{db: db, logger: logger}
}

// Create inserts a new post with a generated UUID.
func (r *PostgresPostRepository) Create(ctx context.Context, post *Post) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	query := `
		INSERT INTO posts (id, author_id, text, tags, like_count, comment_count, share_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))`

	var createdAt interface{}
	if !post.CreatedAt.IsZero() {
		createdAt = post.CreatedAt
	}

	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Text, pq.Array(post.Tags),
		post.LikeCount, post.CommentCount, post.ShareCount, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its UUID.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (post *Post, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `
		SELECT id, author_id, text, tags, like_count, comment_count, share_count, created_at
		FROM posts
		WHERE id = $1`

	post = &Post{}
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.AuthorID, &post.Text, pq.Array(&post.Tags),
		&post.LikeCount, &post.CommentCount, &post.ShareCount, &post.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	return post, nil
}

// GetByIDs retrieves the posts for the given IDs. Missing IDs are absent
// from the result.
func (r *PostgresPostRepository) GetByIDs(ctx context.Context, ids []string) (posts map[string]*Post, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	posts = make(map[string]*Post, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}

	query := `
		SELECT id, author_id, text, tags, like_count, comment_count, share_count, created_at
		FROM posts
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &Post{}
		if err = rows.Scan(&p.ID, &p.AuthorID, &p.Text, pq.Array(&p.Tags),
			&p.LikeCount, &p.CommentCount, &p.ShareCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts[p.ID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// ListRecent retrieves up to limit posts ordered by created_at DESC, id ASC.
func (r *PostgresPostRepository) ListRecent(ctx context.Context, limit int) (posts []*Post, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `
		SELECT id, author_id, text, tags, like_count, comment_count, share_count, created_at
		FROM posts
		ORDER BY created_at DESC, id ASC
		LIMIT NULLIF($1, 0)`

	if limit < 0 {
		limit = 0
	}
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &Post{}
		if err = rows.Scan(&p.ID, &p.AuthorID, &p.Text, pq.Array(&p.Tags),
			&p.LikeCount, &p.CommentCount, &p.ShareCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// PostgresInteractionRepository is a PostgreSQL-backed implementation of
// InteractionRepository. Idempotency on (user, post, kind) is enforced by a
// unique constraint with ON CONFLICT DO NOTHING.
type PostgresInteractionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresInteractionRepository creates a new PostgreSQL interaction
// repository.
func NewPostgresInteractionRepository(db *sql.DB, logger *slog.Logger) *PostgresInteractionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresInteractionRepository{db: db, logger: logger}
}

// Log records an interaction with insert-if-absent semantics.
func (r *PostgresInteractionRepository) Log(ctx context.Context, interaction *Interaction) (inserted bool, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "interactions", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	if err = interaction.Validate(); err != nil {
		return false, err
	}

	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}

	query := `
		INSERT INTO interactions (id, user_id, post_id, kind, dwell_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		ON CONFLICT (user_id, post_id, kind) DO NOTHING`

	var createdAt interface{}
	if !interaction.CreatedAt.IsZero() {
		createdAt = interaction.CreatedAt
	}

	result, err := r.db.ExecContext(ctx, query,
		interaction.ID, interaction.UserID, interaction.PostID,
		string(interaction.Kind), interaction.DwellSeconds, createdAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert interaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListRecentByUser returns up to limit interactions for the user, restricted
// to the given kinds, most recent first.
func (r *PostgresInteractionRepository) ListRecentByUser(ctx context.Context, userID string, kinds []Kind, limit int) (interactions []*Interaction, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "interactions", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	kindStrings := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrings[i] = string(k)
	}

	query := `
		SELECT id, user_id, post_id, kind, dwell_seconds, created_at
		FROM interactions
		WHERE user_id = $1
		  AND (cardinality($2::text[]) = 0 OR kind = ANY($2))
		ORDER BY created_at DESC, id ASC
		LIMIT NULLIF($3, 0)`

	if limit < 0 {
		limit = 0
	}
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(kindStrings), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		in := &Interaction{}
		var kind string
		if err = rows.Scan(&in.ID, &in.UserID, &in.PostID, &kind, &in.DwellSeconds, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		in.Kind = Kind(kind)
		interactions = append(interactions, in)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	return interactions, nil
}

// CountByUser returns the user's total interaction count across all kinds.
func (r *PostgresInteractionRepository) CountByUser(ctx context.Context, userID string) (count int, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "interactions", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `SELECT COUNT(*) FROM interactions WHERE user_id = $1`
	if err = r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	return count, nil
}
