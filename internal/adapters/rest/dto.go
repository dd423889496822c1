package rest

import (
	"time"

	"github.com/google/uuid"
	commentsdomain "github.com/philly/snapgram/internal/comments/domain"
	"github.com/philly/snapgram/internal/platform/relation"
	postsdomain "github.com/philly/snapgram/internal/posts/domain"
	usersdomain "github.com/philly/snapgram/internal/users/domain"
)

type ToggleResponse struct {
	Result relation.Outcome `json:"result"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

type ConnectionResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	ImageURL string    `json:"image_url,omitempty"`
}

type PostSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	MediaID   uuid.UUID `json:"media_id"`
	MediaURL  string    `json:"media_url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileResponse struct {
	User      UserResponse          `json:"user"`
	Followers []ConnectionResponse  `json:"followers"`
	Following []ConnectionResponse  `json:"following"`
	Posts     []PostSummaryResponse `json:"posts,omitempty"`
}

type UserDataResponse struct {
	User *ProfileResponse `json:"user"`
}

type PostResponse struct {
	ID        uuid.UUID `json:"id"`
	MediaID   uuid.UUID `json:"media_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthorResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	ImageURL string    `json:"image_url,omitempty"`
}

type LikeResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDetailsResponse struct {
	PostResponse
	MediaURL       string         `json:"media_url"`
	Author         AuthorResponse `json:"author"`
	Likes          []LikeResponse `json:"likes"`
	UserLiked      bool           `json:"user_liked"`
	CreatedByActor bool           `json:"created_by_actor"`
}

type FeedItemResponse struct {
	PostResponse
	MediaURL  string         `json:"media_url"`
	Author    AuthorResponse `json:"author"`
	LikeCount int            `json:"like_count"`
}

type FeedResponse struct {
	Posts []FeedItemResponse `json:"posts"`
}

type MediaURLResponse struct {
	URL string `json:"url"`
}

type UploadTicketResponse struct {
	URL     string    `json:"url"`
	MediaID uuid.UUID `json:"media_id"`
}

// UploadResponse carries exactly one of Success and Failure.
type UploadResponse struct {
	Success *UploadTicketResponse `json:"success,omitempty"`
	Failure string                `json:"failure,omitempty"`
}

type CommentResponse struct {
	ID             uuid.UUID      `json:"id"`
	PostID         uuid.UUID      `json:"post_id"`
	Text           string         `json:"text"`
	CreatedAt      time.Time      `json:"created_at"`
	Author         AuthorResponse `json:"author"`
	LikeCount      int            `json:"like_count"`
	LikedByActor   bool           `json:"liked_by_actor"`
	CreatedByActor bool           `json:"created_by_actor"`
}

type CommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
}

func toUserResponse(u *usersdomain.User, withEmail bool) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		ImageURL:  u.ImageURL,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}

func toConnections(in []usersdomain.Connection) []ConnectionResponse {
	out := make([]ConnectionResponse, len(in))
	for i, c := range in {
		out[i] = ConnectionResponse{ID: c.UserID, Username: c.Username, ImageURL: c.ImageURL}
	}
	return out
}

func toProfileResponse(p *usersdomain.Profile, withEmail bool) ProfileResponse {
	resp := ProfileResponse{
		User:      toUserResponse(p.User, withEmail),
		Followers: toConnections(p.Followers),
		Following: toConnections(p.Following),
	}
	if p.Posts != nil {
		resp.Posts = make([]PostSummaryResponse, len(p.Posts))
		for i, s := range p.Posts {
			resp.Posts[i] = PostSummaryResponse(s)
		}
	}
	return resp
}

func toPostResponse(p *postsdomain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		MediaID:   p.MediaID,
		OwnerID:   p.OwnerID,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostDetailsResponse(d *postsdomain.PostDetails) PostDetailsResponse {
	resp := PostDetailsResponse{
		PostResponse:   toPostResponse(d.Post),
		Author:         AuthorResponse(d.Author),
		Likes:          make([]LikeResponse, len(d.Likes)),
		UserLiked:      d.UserLiked,
		CreatedByActor: d.CreatedByActor,
	}
	if d.Media != nil {
		resp.MediaURL = d.Media.URL
	}
	for i, l := range d.Likes {
		resp.Likes[i] = LikeResponse(l)
	}
	return resp
}

func toFeedResponse(items []postsdomain.FeedItem) FeedResponse {
	resp := FeedResponse{Posts: make([]FeedItemResponse, len(items))}
	for i, item := range items {
		resp.Posts[i] = FeedItemResponse{
			PostResponse: toPostResponse(item.Post),
			MediaURL:     item.MediaURL,
			Author:       AuthorResponse(item.Author),
			LikeCount:    item.LikeCount,
		}
	}
	return resp
}

func toCommentResponse(v commentsdomain.CommentView) CommentResponse {
	return CommentResponse{
		ID:             v.Comment.ID,
		PostID:         v.Comment.PostID,
		Text:           v.Comment.Text,
		CreatedAt:      v.Comment.CreatedAt,
		Author:         AuthorResponse(v.Author),
		LikeCount:      v.LikeCount,
		LikedByActor:   v.LikedByActor,
		CreatedByActor: v.CreatedByActor,
	}
}
