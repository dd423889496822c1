package relation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/transaction"
)

// Config parameterises a Toggler for one relation kind.
type Config struct {
	Kind   Kind
	Lookup SubjectLookup
	// AllowSelf permits an edge whose subject is the actor. When false a
	// self toggle is a silent no-op.
	AllowSelf bool
}

// Toggler flips the edge between an actor and a subject.
type Toggler struct {
	cfg    Config
	store  EdgeStore
	tx     transaction.Manager
	events eventbus.Publisher
	logger logger.Logger
	now    func() time.Time
}

func NewToggler(
	cfg Config,
	store EdgeStore,
	tx transaction.Manager,
	events eventbus.Publisher,
	logger logger.Logger,
) *Toggler {
	return &Toggler{
		cfg:    cfg,
		store:  store,
		tx:     tx,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func (t *Toggler) Kind() Kind { return t.cfg.Kind }

// Toggle deletes the edge when present and creates it otherwise. The subject
// is looked up first so a missing subject always fails with its NotFound.
func (t *Toggler) Toggle(ctx context.Context, subjectID, actorID uuid.UUID) (Outcome, error) {
	if err := t.cfg.Lookup(ctx, subjectID); err != nil {
		return "", err
	}

	if !t.cfg.AllowSelf && subjectID == actorID {
		t.logger.Debug(ctx, "self toggle ignored", "kind", t.cfg.Kind, "actor_id", actorID)
		t.publish(ctx, subjectID, actorID, Unchanged)
		return Unchanged, nil
	}

	edge := Edge{Kind: t.cfg.Kind, SubjectID: subjectID, ActorID: actorID}

	var outcome Outcome
	err := t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := t.store.Exists(ctx, edge)
		if err != nil {
			return fmt.Errorf("check edge: %w", err)
		}
		if exists {
			// Zero rows removed means a concurrent toggle got there first;
			// the edge is gone either way.
			if _, err := t.store.Delete(ctx, edge); err != nil {
				return fmt.Errorf("delete edge: %w", err)
			}
			outcome = Deleted
			return nil
		}
		outcome = Created
		return t.store.Insert(ctx, edge)
	})

	switch {
	case errors.Is(err, ErrEdgeExists):
		t.logger.Debug(ctx, "concurrent toggle collapsed onto existing edge",
			"kind", t.cfg.Kind, "subject_id", subjectID, "actor_id", actorID)
		outcome = Created
	case err != nil:
		t.logger.Error(ctx, "toggle failed",
			"kind", t.cfg.Kind, "subject_id", subjectID, "actor_id", actorID, "error", err)
		return "", apperror.Internal(err, fmt.Sprintf("failed to toggle %s", t.cfg.Kind))
	}

	t.publish(ctx, subjectID, actorID, outcome)
	return outcome, nil
}

// Exists reports whether the actor currently holds an edge to the subject.
func (t *Toggler) Exists(ctx context.Context, subjectID, actorID uuid.UUID) (bool, error) {
	exists, err := t.store.Exists(ctx, Edge{Kind: t.cfg.Kind, SubjectID: subjectID, ActorID: actorID})
	if err != nil {
		t.logger.Error(ctx, "edge lookup failed", "kind", t.cfg.Kind, "error", err)
		return false, apperror.Internal(err, fmt.Sprintf("failed to read %s", t.cfg.Kind))
	}
	return exists, nil
}

func (t *Toggler) publish(ctx context.Context, subjectID, actorID uuid.UUID, outcome Outcome) {
	t.events.Publish(ctx, eventbus.Event{
		Topic: events.RelationToggledTopic,
		Payload: events.RelationToggledEvent{
			Kind:       string(t.cfg.Kind),
			SubjectID:  subjectID,
			ActorID:    actorID,
			Outcome:    string(outcome),
			OccurredAt: t.now(),
		},
	})
}
