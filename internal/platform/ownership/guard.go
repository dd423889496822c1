// Package ownership holds the single guard every mutating operation on an
// owned resource goes through. Callers must have verified that the resource
// exists before asking; a missing resource is a NotFound, not a Forbidden.
package ownership

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
)

// Resource is a kind of exclusively owned entity.
type Resource string

const (
	ResourcePost    Resource = "post"
	ResourceComment Resource = "comment"
	ResourceMedia   Resource = "media"
)

// Action is what the actor is trying to do with the resource.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAttach Action = "attach"
)

// Decision is the tagged result of Check.
type Decision struct {
	Allowed  bool
	Resource Resource
	Action   Action
}

// Err converts a denied decision into the Forbidden error callers propagate.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperror.Forbidden(apperror.BusinessCodePermissionDenied, deniedMessage(d.Resource, d.Action))
}

// Check compares the resource owner to the acting user.
func Check(resource Resource, action Action, ownerID, actorID uuid.UUID) Decision {
	return Decision{
		Allowed:  actorID != uuid.Nil && ownerID == actorID,
		Resource: resource,
		Action:   action,
	}
}

// Assert fails with Forbidden unless actorID owns the resource.
func Assert(resource Resource, action Action, ownerID, actorID uuid.UUID) error {
	return Check(resource, action, ownerID, actorID).Err()
}

func deniedMessage(resource Resource, action Action) string {
	if resource == ResourceMedia && action == ActionAttach {
		return "You do not have permission to create a post with this media"
	}
	return fmt.Sprintf("You do not have permission to %s this %s", action, resource)
}
