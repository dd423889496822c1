package domain

import (
	"time"

	"github.com/google/uuid"
)

// Author is the public face of a post's owner.
type Author struct {
	ID       uuid.UUID
	Username string
	ImageURL string
}

type Like struct {
	UserID    uuid.UUID
	Username  string
	CreatedAt time.Time
}

// PostDetails is a post with everything the post page shows. The viewer
// flags are filled by the service for the acting user.
type PostDetails struct {
	Post           *Post
	Media          *Media
	Author         Author
	Likes          []Like
	UserLiked      bool
	CreatedByActor bool
}

func (d *PostDetails) LikedBy(userID uuid.UUID) bool {
	for _, l := range d.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// FeedItem is an entry of the explore feed.
type FeedItem struct {
	Post      *Post
	MediaURL  string
	Author    Author
	LikeCount int
}
