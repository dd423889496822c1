package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/eventbus"
)

const RelationToggledTopic eventbus.Topic = "relations.toggled"

// RelationToggledEvent is published after every toggle, including no-ops.
type RelationToggledEvent struct {
	Kind       string
	SubjectID  uuid.UUID
	ActorID    uuid.UUID
	Outcome    string
	OccurredAt time.Time
}
