package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/posts/domain"
	"github.com/philly/snapgram/internal/posts/ports"
)

// Posts implements ports.PostRepository.
type Posts struct{ s *Store }

var _ ports.PostRepository = (*Posts)(nil)

func (r *Posts) Create(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.media[post.MediaID]; !ok {
		return ports.ErrMediaNotFound
	}
	for _, p := range r.s.posts {
		if p.post.MediaID == post.MediaID {
			return ports.ErrMediaInUse
		}
	}
	r.s.posts[post.ID] = postRow{post: *post, seq: r.s.next()}
	return nil
}

func (r *Posts) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	return &p.post, nil
}

func (r *Posts) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.posts[id]
	return ok, nil
}

func (r *Posts) Update(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.posts[post.ID]
	if !ok {
		return ports.ErrPostNotFound
	}
	row.post.Caption = post.Caption
	row.post.UpdatedAt = post.UpdatedAt
	r.s.posts[post.ID] = row
	return nil
}

func (r *Posts) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return ports.ErrPostNotFound
	}
	r.s.deletePostLocked(id)
	return nil
}

func (r *Posts) FindDetails(ctx context.Context, id uuid.UUID) (*domain.PostDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	media := r.s.media[row.post.MediaID]

	type likeRow struct {
		like domain.Like
		seq  int64
	}
	var likes []likeRow
	for k, e := range r.s.edges {
		if k.kind == relation.KindLike && k.subject == id {
			likes = append(likes, likeRow{
				like: domain.Like{UserID: k.actor, Username: r.s.users[k.actor].Username, CreatedAt: e.createdAt},
				seq:  e.seq,
			})
		}
	}
	slices.SortFunc(likes, func(a, b likeRow) int { return cmp.Compare(a.seq, b.seq) })

	details := &domain.PostDetails{
		Post:   &row.post,
		Media:  &media,
		Author: r.author(row.post.OwnerID),
		Likes:  make([]domain.Like, len(likes)),
	}
	for i, l := range likes {
		details.Likes[i] = l.like
	}
	return details, nil
}

func (r *Posts) FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rows []postRow
	for _, p := range r.s.posts {
		if p.post.OwnerID == ownerID {
			rows = append(rows, p)
		}
	}
	if len(rows) == 0 {
		return nil, ports.ErrPostNotFound
	}
	sortPostsDesc(rows)
	return &rows[0].post, nil
}

func (r *Posts) ListRecent(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows := make([]postRow, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		rows = append(rows, p)
	}
	sortPostsDesc(rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}

	items := make([]domain.FeedItem, len(rows))
	for i, p := range rows {
		likeCount := 0
		for k := range r.s.edges {
			if k.kind == relation.KindLike && k.subject == p.post.ID {
				likeCount++
			}
		}
		items[i] = domain.FeedItem{
			Post:      &p.post,
			MediaURL:  r.s.media[p.post.MediaID].URL,
			Author:    r.author(p.post.OwnerID),
			LikeCount: likeCount,
		}
	}
	return items, nil
}

func (r *Posts) author(id uuid.UUID) domain.Author {
	u := r.s.users[id]
	return domain.Author{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}

// Media implements ports.MediaRepository.
type Media struct{ s *Store }

var _ ports.MediaRepository = (*Media)(nil)

func (r *Media) Create(ctx context.Context, media *domain.Media) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.media[media.ID] = *media
	return nil
}

func (r *Media) FindByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.media[id]
	if !ok {
		return nil, ports.ErrMediaNotFound
	}
	return &m, nil
}

func (r *Media) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.media[id]; !ok {
		return ports.ErrMediaNotFound
	}
	for _, p := range r.s.posts {
		if p.post.MediaID == id {
			return ports.ErrMediaInUse
		}
	}
	delete(r.s.media, id)
	return nil
}

func (r *Media) ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Media, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	used := make(map[uuid.UUID]bool, len(r.s.posts))
	for _, p := range r.s.posts {
		used[p.post.MediaID] = true
	}

	var orphans []*domain.Media
	for _, m := range r.s.media {
		if !used[m.ID] && m.CreatedAt.Before(cutoff) {
			orphans = append(orphans, &m)
		}
	}
	slices.SortFunc(orphans, func(a, b *domain.Media) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if len(orphans) > limit {
		orphans = orphans[:limit]
	}
	return orphans, nil
}

func sortPostsDesc(rows []postRow) {
	slices.SortFunc(rows, func(a, b postRow) int { return cmp.Compare(b.seq, a.seq) })
}
