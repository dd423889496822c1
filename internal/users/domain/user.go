package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/validator"
)

var (
	ErrEmptyExternalID = errors.New("external ID cannot be empty")
	ErrNotProvisioned  = errors.New("user has not chosen a username yet")
)

// User is an account. A user whose Username is empty has signed in but not
// finished setup; profile-bearing operations ignore it.
type User struct {
	ID         uuid.UUID
	ExternalID string // subject claim of the identity provider
	Email      string
	Username   string
	ImageURL   string
	Bio        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser creates an unprovisioned user for a freshly authenticated identity.
func NewUser(externalID, email, imageURL string) (*User, error) {
	if externalID == "" {
		return nil, ErrEmptyExternalID
	}

	now := time.Now()
	return &User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      email,
		ImageURL:   imageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (u *User) IsProvisioned() bool {
	return u.Username != ""
}

// ChangeUsername validates the format and reserved list. Uniqueness is the
// store's job.
func (u *User) ChangeUsername(username string) error {
	if err := validator.ValidateUsernameFormat(username); err != nil {
		return err
	}
	if validator.IsReservedUsername(username) {
		return validator.ErrUsernameReserved
	}
	u.Username = username
	u.UpdatedAt = time.Now()
	return nil
}

func (u *User) UpdateBio(bio string) {
	u.Bio = bio
	u.UpdatedAt = time.Now()
}
