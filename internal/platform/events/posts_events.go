package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/eventbus"
)

// Event topics for posts and media
const (
	PostCreatedTopic    eventbus.Topic = "posts.created"
	PostUpdatedTopic    eventbus.Topic = "posts.updated"
	PostDeletedTopic    eventbus.Topic = "posts.deleted"
	MediaRequestedTopic eventbus.Topic = "media.requested"
	MediaSweptTopic     eventbus.Topic = "media.swept"
)

type PostCreatedEvent struct {
	PostID     uuid.UUID
	MediaID    uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

type PostUpdatedEvent struct {
	PostID     uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// PostDeletedEvent is published once the rows are gone. BlobDeleted is false
// when the object store refused the delete and the blob is now orphaned.
type PostDeletedEvent struct {
	PostID      uuid.UUID
	MediaID     uuid.UUID
	ActorID     uuid.UUID
	BlobDeleted bool
	OccurredAt  time.Time
}

// MediaRequestedEvent reports the outcome of an upload handshake. Reason is
// empty when a presigned URL was issued.
type MediaRequestedEvent struct {
	MediaID    uuid.UUID
	ActorID    uuid.UUID
	Reason     string
	OccurredAt time.Time
}

type MediaSweptEvent struct {
	MediaIDs   []uuid.UUID
	OccurredAt time.Time
}
