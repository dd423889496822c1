package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/validator"
)

const MaxCaptionLength = 500

var (
	ErrCaptionTooLong = errors.New("caption must not exceed 500 characters")
	ErrMissingMedia   = errors.New("media ID is required")
	ErrMissingOwner   = errors.New("owner ID is required")
)

// Post is an image with a caption. It always references exactly one Media
// owned by the same user.
type Post struct {
	ID        uuid.UUID
	MediaID   uuid.UUID
	OwnerID   uuid.UUID
	Caption   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPost(mediaID, ownerID uuid.UUID, caption string) (*Post, error) {
	if mediaID == uuid.Nil {
		return nil, ErrMissingMedia
	}
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if err := ValidateCaption(caption); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Post{
		ID:        uuid.New(),
		MediaID:   mediaID,
		OwnerID:   ownerID,
		Caption:   caption,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Post) UpdateCaption(caption string) error {
	if err := ValidateCaption(caption); err != nil {
		return err
	}
	p.Caption = caption
	p.UpdatedAt = time.Now()
	return nil
}

func ValidateCaption(caption string) error {
	if !validator.RuneLengthBetween(caption, 0, MaxCaptionLength) {
		return ErrCaptionTooLong
	}
	return nil
}
