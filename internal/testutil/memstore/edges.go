package memstore

import (
	"context"
	"errors"
	"time"

	"github.com/philly/snapgram/internal/platform/relation"
)

var errSubjectMissing = errors.New("memstore: edge subject does not exist")

// Edges implements relation.EdgeStore for all three kinds.
type Edges struct{ s *Store }

var _ relation.EdgeStore = (*Edges)(nil)

func (r *Edges) Exists(ctx context.Context, edge relation.Edge) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.edges[keyOf(edge)]
	return ok, nil
}

func (r *Edges) Insert(ctx context.Context, edge relation.Edge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.subjectExists(edge) {
		return errSubjectMissing
	}
	key := keyOf(edge)
	if _, ok := r.s.edges[key]; ok {
		return relation.ErrEdgeExists
	}
	r.s.edges[key] = edgeRow{createdAt: time.Now(), seq: r.s.next()}
	return nil
}

func (r *Edges) Delete(ctx context.Context, edge relation.Edge) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := keyOf(edge)
	if _, ok := r.s.edges[key]; !ok {
		return false, nil
	}
	delete(r.s.edges, key)
	return true, nil
}

func (r *Edges) subjectExists(edge relation.Edge) bool {
	var ok bool
	switch edge.Kind {
	case relation.KindFollow:
		_, ok = r.s.users[edge.SubjectID]
	case relation.KindLike:
		_, ok = r.s.posts[edge.SubjectID]
	case relation.KindCommentLike:
		_, ok = r.s.comments[edge.SubjectID]
	}
	return ok
}

func keyOf(edge relation.Edge) edgeKey {
	return edgeKey{kind: edge.Kind, subject: edge.SubjectID, actor: edge.ActorID}
}
