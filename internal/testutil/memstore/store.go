// Package memstore is an in-memory implementation of every repository port.
// It enforces the same uniqueness and reference rules as the PostgreSQL
// schema so service tests exercise the same failure paths.
package memstore

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	commentsdomain "github.com/philly/snapgram/internal/comments/domain"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/relation"
	postsdomain "github.com/philly/snapgram/internal/posts/domain"
	usersdomain "github.com/philly/snapgram/internal/users/domain"
)

type edgeKey struct {
	kind    relation.Kind
	subject uuid.UUID
	actor   uuid.UUID
}

type edgeRow struct {
	createdAt time.Time
	seq       int64
}

type postRow struct {
	post postsdomain.Post
	seq  int64
}

type commentRow struct {
	comment commentsdomain.Comment
	seq     int64
}

// Store holds all tables behind one lock.
type Store struct {
	mu       sync.Mutex
	seq      int64
	users    map[uuid.UUID]usersdomain.User
	media    map[uuid.UUID]postsdomain.Media
	posts    map[uuid.UUID]postRow
	comments map[uuid.UUID]commentRow
	edges    map[edgeKey]edgeRow
}

func New() *Store {
	return &Store{
		users:    make(map[uuid.UUID]usersdomain.User),
		media:    make(map[uuid.UUID]postsdomain.Media),
		posts:    make(map[uuid.UUID]postRow),
		comments: make(map[uuid.UUID]commentRow),
		edges:    make(map[edgeKey]edgeRow),
	}
}

func (s *Store) Users() *Users       { return &Users{s} }
func (s *Store) Profiles() *Profiles { return &Profiles{s} }
func (s *Store) Posts() *Posts       { return &Posts{s} }
func (s *Store) Media() *Media       { return &Media{s} }
func (s *Store) Comments() *Comments { return &Comments{s} }
func (s *Store) Edges() *Edges       { return &Edges{s} }

// EdgeCount returns how many rows exist for the triple.
func (s *Store) EdgeCount(kind relation.Kind, subjectID, actorID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.edges[edgeKey{kind, subjectID, actorID}]; ok {
		return 1
	}
	return 0
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// deletePostLocked removes a post and everything hanging off it.
func (s *Store) deletePostLocked(id uuid.UUID) {
	delete(s.posts, id)
	for k := range s.edges {
		if k.kind == relation.KindLike && k.subject == id {
			delete(s.edges, k)
		}
	}
	for cid, c := range s.comments {
		if c.comment.PostID == id {
			s.deleteCommentLocked(cid)
		}
	}
}

func (s *Store) deleteCommentLocked(id uuid.UUID) {
	delete(s.comments, id)
	for k := range s.edges {
		if k.kind == relation.KindCommentLike && k.subject == id {
			delete(s.edges, k)
		}
	}
}

// Logger discards everything.
func Logger() logger.Logger {
	return logger.NewSlogAdapterWithWriter(io.Discard, "test", "error")
}

// AddUser inserts a provisioned user and returns it.
func (s *Store) AddUser(username string) *usersdomain.User {
	u, _ := usersdomain.NewUser("ext|"+username, username+"@example.test", "https://img.example.test/"+username+".png")
	u.Username = username

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return u
}

// AddMedia inserts a media row owned by ownerID, created at createdAt.
func (s *Store) AddMedia(ownerID uuid.UUID, createdAt time.Time) *postsdomain.Media {
	m := postsdomain.NewMedia("https://bucket.example.test/"+uuid.NewString(), ownerID)
	m.CreatedAt = createdAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[m.ID] = *m
	return m
}
