package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/comments/domain"
	"github.com/philly/snapgram/internal/comments/ports"
	"github.com/philly/snapgram/internal/platform/relation"
)

// Comments implements ports.CommentRepository.
type Comments struct{ s *Store }

var _ ports.CommentRepository = (*Comments)(nil)

func (r *Comments) Create(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[comment.PostID]; !ok {
		return ports.ErrPostNotFound
	}
	r.s.comments[comment.ID] = commentRow{comment: *comment, seq: r.s.next()}
	return nil
}

func (r *Comments) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, ports.ErrCommentNotFound
	}
	return &c.comment, nil
}

func (r *Comments) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.comments[id]
	return ok, nil
}

func (r *Comments) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return ports.ErrCommentNotFound
	}
	r.s.deleteCommentLocked(id)
	return nil
}

func (r *Comments) ListByPost(ctx context.Context, postID, viewerID uuid.UUID) ([]domain.CommentView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rows []commentRow
	for _, c := range r.s.comments {
		if c.comment.PostID == postID {
			rows = append(rows, c)
		}
	}
	slices.SortFunc(rows, func(a, b commentRow) int { return cmp.Compare(b.seq, a.seq) })

	views := make([]domain.CommentView, len(rows))
	for i, c := range rows {
		u := r.s.users[c.comment.AuthorID]
		view := domain.CommentView{
			Comment: &c.comment,
			Author:  domain.Author{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL},
		}
		for k := range r.s.edges {
			if k.kind == relation.KindCommentLike && k.subject == c.comment.ID {
				view.LikeCount++
				if k.actor == viewerID {
					view.LikedByActor = true
				}
			}
		}
		views[i] = view
	}
	return views, nil
}
