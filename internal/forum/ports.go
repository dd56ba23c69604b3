package forum

import (
	"context"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Store is the post and reply persistence the engine reads from and writes to.
// Cascading deletes are the store's job.
type Store interface {
	Post(ctx context.Context, id uint) (models.Post, error)
	// PostsPage returns one page of posts, newest first, with User preloaded, and the total post count.
	PostsPage(ctx context.Context, page, size int) ([]models.Post, int64, error)
	PostsByUser(ctx context.Context, userID uint) ([]models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	ClosePost(ctx context.Context, id uint) error
	DeletePost(ctx context.Context, id uint) error

	Comment(ctx context.Context, id uint) (models.Comment, error)
	// RepliesForPost returns every comment of a post, oldest first.
	RepliesForPost(ctx context.Context, postID uint) ([]models.Comment, error)
	// RepliesByParent returns the direct replies to any of parentIDs, oldest first.
	RepliesByParent(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	// DeleteComment removes the comment, all of its descendants and their votes.
	DeleteComment(ctx context.Context, id uint) error
	CountComments(ctx context.Context, postID uint) (int64, error)
	CountCommentsByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

// VoteStore persists one ledger. Insert must report ErrDuplicateVote when the
// (voter, target) uniqueness constraint fires.
type VoteStore interface {
	Insert(ctx context.Context, targetID, voterID uint) error
	Delete(ctx context.Context, targetID, voterID uint) (bool, error)
	Exists(ctx context.Context, targetID, voterID uint) (bool, error)
	Count(ctx context.Context, targetID uint) (int64, error)
	CountMany(ctx context.Context, targetIDs []uint) (map[uint]int64, error)
}

// IdentityLookup resolves a user id to its public author block.
type IdentityLookup interface {
	Author(ctx context.Context, userID uint) (Author, error)
}

// ProfanityClassifier is an external predicate; the result is stored, never enforced.
type ProfanityClassifier interface {
	IsProfane(text string) bool
}

// TextSanitizer cleans user submitted text before it is stored.
type TextSanitizer interface {
	Sanitize(text string) string
}

// Renderer turns stored text into display HTML for the verbose view.
type Renderer interface {
	Render(text string) string
}
