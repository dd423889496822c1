package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/users/domain"
)

// Repository errors. Implementations translate driver errors into these.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrUsernameTaken = errors.New("username already taken")
)

type UserRepository interface {
	// Create returns ErrUserExists when the external ID is already known.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Search matches provisioned usernames containing substring, ignoring case.
	Search(ctx context.Context, substring string, limit int) ([]*domain.User, error)
	// Update returns ErrUsernameTaken when the new username collides.
	Update(ctx context.Context, user *domain.User) error
}

// ProfileReader loads the read-side data shown alongside a user.
type ProfileReader interface {
	Connections(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.Connections, error)
	PostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PostSummary, error)
}
