package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/validator"
)

const (
	MinTextLength = 1
	MaxTextLength = 200
)

var (
	ErrTextLength    = errors.New("comment must be between 1 and 200 characters")
	ErrMissingPost   = errors.New("post ID is required")
	ErrMissingAuthor = errors.New("author ID is required")
)

type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	Text      string
	CreatedAt time.Time
}

// NewComment trims the text before checking its length.
func NewComment(postID, authorID uuid.UUID, text string) (*Comment, error) {
	if postID == uuid.Nil {
		return nil, ErrMissingPost
	}
	if authorID == uuid.Nil {
		return nil, ErrMissingAuthor
	}

	text = strings.TrimSpace(text)
	if !validator.RuneLengthBetween(text, MinTextLength, MaxTextLength) {
		return nil, ErrTextLength
	}

	return &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}

type Author struct {
	ID       uuid.UUID
	Username string
	ImageURL string
}

// CommentView is a comment as listed under a post, seen by one viewer.
type CommentView struct {
	Comment        *Comment
	Author         Author
	LikeCount      int
	LikedByActor   bool
	CreatedByActor bool
}
