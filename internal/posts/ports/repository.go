package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/posts/domain"
)

// Repository errors. The PostgreSQL implementation translates pgx.ErrNoRows
// and constraint violations into these.
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrMediaNotFound = errors.New("media not found")
	// ErrMediaInUse is returned when a media row is still referenced by a post.
	ErrMediaInUse = errors.New("media is referenced by a post")
)

type PostRepository interface {
	// Create returns ErrMediaNotFound when the referenced media vanished.
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDetails loads the post with its media, author and likes.
	FindDetails(ctx context.Context, id uuid.UUID) (*domain.PostDetails, error)
	FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Post, error)
	// ListRecent returns the newest posts first.
	ListRecent(ctx context.Context, limit int) ([]domain.FeedItem, error)
}

type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	// Delete returns ErrMediaInUse while a post references the media.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListOrphans returns media created before cutoff that no post references.
	ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Media, error)
}
