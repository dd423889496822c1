package relation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/platform/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RelationToggledEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Payload.(events.RelationToggledEvent))
}

// rowStore keeps edges as rows and refuses duplicates like a unique index.
type rowStore struct {
	mu   sync.Mutex
	rows []relation.Edge
	// staleReads makes Exists report false regardless of state, simulating
	// two toggles that both read before either wrote.
	staleReads bool
	failWith   error
}

func (s *rowStore) Exists(ctx context.Context, edge relation.Edge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	if s.staleReads {
		return false, nil
	}
	return s.count(edge) > 0, nil
}

func (s *rowStore) Insert(ctx context.Context, edge relation.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count(edge) > 0 {
		return relation.ErrEdgeExists
	}
	s.rows = append(s.rows, edge)
	return nil
}

func (s *rowStore) Delete(ctx context.Context, edge relation.Edge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row == edge {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *rowStore) count(edge relation.Edge) int {
	n := 0
	for _, row := range s.rows {
		if row == edge {
			n++
		}
	}
	return n
}

func (s *rowStore) Count(edge relation.Edge) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count(edge)
}

var errMissing = apperror.NotFound(apperror.BusinessCodePostNotFound, "Post not found")

func newToggler(store relation.EdgeStore, kind relation.Kind, allowSelf bool, known ...uuid.UUID) (*relation.Toggler, *recordingPublisher) {
	exists := map[uuid.UUID]bool{}
	for _, id := range known {
		exists[id] = true
	}
	pub := &recordingPublisher{}
	lookup := func(ctx context.Context, id uuid.UUID) error {
		if !exists[id] {
			return errMissing
		}
		return nil
	}
	return relation.NewToggler(
		relation.Config{Kind: kind, Lookup: lookup, AllowSelf: allowSelf},
		store, transaction.Immediate{}, pub, nopLogger{},
	), pub
}

func TestToggle_FlipsAndReturns(t *testing.T) {
	store := &rowStore{}
	post, actor := uuid.New(), uuid.New()
	toggler, pub := newToggler(store, relation.KindLike, true, post)
	edge := relation.Edge{Kind: relation.KindLike, SubjectID: post, ActorID: actor}

	outcome, err := toggler.Toggle(context.Background(), post, actor)
	require.NoError(t, err)
	assert.Equal(t, relation.Created, outcome)
	assert.Equal(t, 1, store.Count(edge))

	outcome, err = toggler.Toggle(context.Background(), post, actor)
	require.NoError(t, err)
	assert.Equal(t, relation.Deleted, outcome)
	assert.Equal(t, 0, store.Count(edge))

	require.Len(t, pub.events, 2)
	assert.Equal(t, "created", pub.events[0].Outcome)
	assert.Equal(t, "deleted", pub.events[1].Outcome)
	assert.Equal(t, "like", pub.events[0].Kind)
}

func TestToggle_MissingSubjectIsNotFound(t *testing.T) {
	store := &rowStore{}
	toggler, pub := newToggler(store, relation.KindLike, true)

	_, err := toggler.Toggle(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, errMissing)
	assert.Empty(t, store.rows)
	assert.Empty(t, pub.events)
}

func TestToggle_SelfFollowIsNoOp(t *testing.T) {
	store := &rowStore{}
	user := uuid.New()
	toggler, _ := newToggler(store, relation.KindFollow, false, user)

	for i := 0; i < 3; i++ {
		outcome, err := toggler.Toggle(context.Background(), user, user)
		require.NoError(t, err)
		assert.Equal(t, relation.Unchanged, outcome)
	}
	assert.Empty(t, store.rows)
}

func TestToggle_SelfLikeAllowed(t *testing.T) {
	store := &rowStore{}
	id := uuid.New()
	toggler, _ := newToggler(store, relation.KindCommentLike, true, id)

	outcome, err := toggler.Toggle(context.Background(), id, id)

	require.NoError(t, err)
	assert.Equal(t, relation.Created, outcome)
}

func TestToggle_DuplicateInsertCollapsesToCreated(t *testing.T) {
	post, actor := uuid.New(), uuid.New()
	edge := relation.Edge{Kind: relation.KindLike, SubjectID: post, ActorID: actor}
	store := &rowStore{rows: []relation.Edge{edge}, staleReads: true}
	toggler, _ := newToggler(store, relation.KindLike, true, post)

	outcome, err := toggler.Toggle(context.Background(), post, actor)

	require.NoError(t, err)
	assert.Equal(t, relation.Created, outcome)
	assert.Equal(t, 1, store.Count(edge))
}

func TestToggle_StoreFailureIsInternal(t *testing.T) {
	post := uuid.New()
	store := &rowStore{failWith: errors.New("connection refused")}
	toggler, _ := newToggler(store, relation.KindLike, true, post)

	_, err := toggler.Toggle(context.Background(), post, uuid.New())

	assert.True(t, apperror.HasCode(err, apperror.CodeInternalError))
}

func TestToggle_ConcurrentTogglesNeverDuplicate(t *testing.T) {
	store := &rowStore{}
	target, actor := uuid.New(), uuid.New()
	toggler, _ := newToggler(store, relation.KindFollow, false, target)
	edge := relation.Edge{Kind: relation.KindFollow, SubjectID: target, ActorID: actor}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := toggler.Toggle(context.Background(), target, actor)
			assert.NoError(t, err)
			assert.LessOrEqual(t, store.Count(edge), 1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Count(edge), 1)
}

func TestExists(t *testing.T) {
	store := &rowStore{}
	target, actor := uuid.New(), uuid.New()
	toggler, _ := newToggler(store, relation.KindFollow, false, target)

	following, err := toggler.Exists(context.Background(), target, actor)
	require.NoError(t, err)
	assert.False(t, following)

	_, err = toggler.Toggle(context.Background(), target, actor)
	require.NoError(t, err)

	following, err = toggler.Exists(context.Background(), target, actor)
	require.NoError(t, err)
	assert.True(t, following)
}
