package domain

import (
	"time"

	"github.com/google/uuid"
)

// Connection is the other end of a follow edge.
type Connection struct {
	UserID   uuid.UUID
	Username string
	ImageURL string
}

// Connections holds both directions of a user's follow graph.
type Connections struct {
	Followers []Connection // users following this user
	Following []Connection // users this user follows
}

// PostSummary is the grid entry for a post on a profile.
type PostSummary struct {
	ID        uuid.UUID
	MediaID   uuid.UUID
	MediaURL  string
	Caption   string
	CreatedAt time.Time
}

// Profile is a user together with its follow graph and, when loaded, its
// posts newest first.
type Profile struct {
	User *User
	Connections
	Posts []PostSummary
}

// FollowedBy reports whether userID appears among the followers.
func (p *Profile) FollowedBy(userID uuid.UUID) bool {
	for _, c := range p.Followers {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
