package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/comments/domain"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	// ErrPostNotFound is returned by Create when the post vanished.
	ErrPostNotFound = errors.New("post not found")
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByPost returns the post's comments newest first, with LikedByActor
	// computed for viewerID.
	ListByPost(ctx context.Context, postID, viewerID uuid.UUID) ([]domain.CommentView, error)
}

// PostChecker answers whether a post exists. The posts repository satisfies it.
type PostChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
