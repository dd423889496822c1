package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/eventbus"
)

const (
	CommentCreatedTopic eventbus.Topic = "comments.created"
	CommentDeletedTopic eventbus.Topic = "comments.deleted"
)

type CommentCreatedEvent struct {
	CommentID  uuid.UUID
	PostID     uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

type CommentDeletedEvent struct {
	CommentID  uuid.UUID
	PostID     uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}
