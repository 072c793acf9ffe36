// Package post provides the post and interaction models and repositories
// consumed by the feed ranking pipeline.
package post

import (
	"errors"
	"time"
)

// Common errors for post and interaction operations.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidKind  = errors.New("invalid interaction kind")
)

// Kind identifies the type of a user/post interaction.
type Kind string

// Interaction kinds.
const (
	KindView    Kind = "view"
	KindLike    Kind = "like"
	KindComment Kind = "comment"
	KindShare   Kind = "share"
	KindSave    Kind = "save"
	KindSkip    Kind = "skip"
)

// validKinds is the set of accepted interaction kinds.
var validKinds = map[Kind]bool{
	KindView:    true,
	KindLike:    true,
	KindComment: true,
	KindShare:   true,
	KindSave:    true,
	KindSkip:    true,
}

// ValidKind reports whether k is a recognized interaction kind.
func ValidKind(k Kind) bool {
	return validKinds[k]
}

// ProfileKinds are the interaction kinds that contribute to a user's
// interest profile. Saves and skips carry no positive content signal
// for profile purposes.
var ProfileKinds = []Kind{KindView, KindLike, KindComment, KindShare}

// Post represents a candidate feed post. Posts are immutable for ranking
// purposes; only the engagement counters change over time, and those are
// maintained by external collaborators.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Text         string    `json:"text"`
	Tags         []string  `json:"tags,omitempty"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	ShareCount   int       `json:"share_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasTag reports whether the post carries the given tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Interaction records one user/post interaction. At most one interaction
// exists per (user, post, kind); repositories enforce this with
// insert-if-absent semantics so duplicate writes are no-ops.
type Interaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PostID       string    `json:"post_id"`
	Kind         Kind      `json:"kind"`
	DwellSeconds *float64  `json:"dwell_seconds,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks that the interaction references a user, a post, and a
// recognized kind.
func (i *Interaction) Validate() error {
	if i.UserID == "" {
		return errors.New("interaction requires a user id")
	}
	if i.PostID == "" {
		return errors.New("interaction requires a post id")
	}
	if !ValidKind(i.Kind) {
		return ErrInvalidKind
	}
	return nil
}
