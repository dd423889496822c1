// Package relation implements the toggle shared by every edge between a user
// and something they follow or like.
//
// The read-then-write inside Toggle is an optimisation. Correctness comes
// from the store: an EdgeStore must refuse a second edge for the same
// (kind, subject, actor) triple and report it as ErrEdgeExists.
package relation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Kind names a relationship table.
type Kind string

const (
	KindFollow      Kind = "follow"
	KindLike        Kind = "like"
	KindCommentLike Kind = "comment_like"
)

// Outcome is the state change a toggle produced.
type Outcome string

const (
	Created   Outcome = "created"
	Deleted   Outcome = "deleted"
	Unchanged Outcome = "unchanged"
)

// Edge is one directed relationship row. For follows the subject is the
// followed user and the actor the follower; for likes the subject is the
// post or comment.
type Edge struct {
	Kind      Kind
	SubjectID uuid.UUID
	ActorID   uuid.UUID
}

// ErrEdgeExists is returned by EdgeStore.Insert when the uniqueness
// constraint rejected the row.
var ErrEdgeExists = errors.New("relation: edge already exists")

// EdgeStore persists edges of every kind.
type EdgeStore interface {
	Exists(ctx context.Context, edge Edge) (bool, error)
	Insert(ctx context.Context, edge Edge) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, edge Edge) (bool, error)
}

// SubjectLookup verifies the subject exists. It returns the NotFound error
// that should reach the caller when it does not.
type SubjectLookup func(ctx context.Context, subjectID uuid.UUID) error
