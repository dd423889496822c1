package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/users/domain"
	"github.com/philly/snapgram/internal/users/ports"
)

// Users implements ports.UserRepository.
type Users struct{ s *Store }

var _ ports.UserRepository = (*Users)(nil)

func (r *Users) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ExternalID == user.ExternalID {
			return ports.ErrUserExists
		}
		if user.Username != "" && u.Username == user.Username {
			return ports.ErrUsernameTaken
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	return &u, nil
}

func (r *Users) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ExternalID == externalID })
}

func (r *Users) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, ports.ErrUserNotFound
	}
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *Users) Search(ctx context.Context, substring string, limit int) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	needle := strings.ToLower(substring)
	var found []*domain.User
	for _, u := range r.s.users {
		if u.Username != "" && strings.Contains(strings.ToLower(u.Username), needle) {
			found = append(found, &u)
		}
	}
	slices.SortFunc(found, func(a, b *domain.User) int { return cmp.Compare(a.Username, b.Username) })
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *Users) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return ports.ErrUserNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && user.Username != "" && u.Username == user.Username {
			return ports.ErrUsernameTaken
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ports.ErrUserNotFound
}

// Profiles implements ports.ProfileReader.
type Profiles struct{ s *Store }

var _ ports.ProfileReader = (*Profiles)(nil)

func (r *Profiles) Connections(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.Connections, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[uuid.UUID]domain.Connections, len(userIDs))
	for _, id := range userIDs {
		var c domain.Connections
		for k := range r.s.edges {
			if k.kind != relation.KindFollow {
				continue
			}
			switch id {
			case k.subject:
				c.Followers = append(c.Followers, r.connection(k.actor))
			case k.actor:
				c.Following = append(c.Following, r.connection(k.subject))
			}
		}
		out[id] = c
	}
	return out, nil
}

func (r *Profiles) connection(id uuid.UUID) domain.Connection {
	u := r.s.users[id]
	return domain.Connection{UserID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}

func (r *Profiles) PostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PostSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rows []postRow
	for _, p := range r.s.posts {
		if p.post.OwnerID == ownerID {
			rows = append(rows, p)
		}
	}
	sortPostsDesc(rows)

	summaries := make([]domain.PostSummary, len(rows))
	for i, p := range rows {
		summaries[i] = domain.PostSummary{
			ID:        p.post.ID,
			MediaID:   p.post.MediaID,
			MediaURL:  r.s.media[p.post.MediaID].URL,
			Caption:   p.post.Caption,
			CreatedAt: p.post.CreatedAt,
		}
	}
	return summaries, nil
}
