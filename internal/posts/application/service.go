package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/ownership"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/platform/transaction"
	"github.com/philly/snapgram/internal/platform/validator"
	"github.com/philly/snapgram/internal/posts/domain"
	"github.com/philly/snapgram/internal/posts/ports"
)

const (
	DefaultFeedSize = 30
	MaxFeedSize     = 100
)

// Error definitions for service operations
var (
	ErrPostNotFound = apperror.NotFound(apperror.BusinessCodePostNotFound, "Post not found")

	ErrMediaNotFound = apperror.NotFound(apperror.BusinessCodeMediaNotFound, "Media not found")

	ErrMediaInUse = apperror.Conflict(apperror.BusinessCodeMediaInUse, "This media is already attached to a post")

	ErrInvalidCaption = apperror.Validation(apperror.BusinessCodeInvalidCaption, "Caption must not exceed 500 characters")
)

// PostsService handles post-related business logic
type PostsService struct {
	posts     ports.PostRepository
	media     ports.MediaRepository
	objects   ports.ObjectStore
	likes     *relation.Toggler
	tx        transaction.Manager
	events    eventbus.Publisher
	logger    logger.Logger
	sanitizer *validator.PlainText
}

func NewPostsService(
	posts ports.PostRepository,
	media ports.MediaRepository,
	objects ports.ObjectStore,
	edges relation.EdgeStore,
	tx transaction.Manager,
	events eventbus.Publisher,
	logger logger.Logger,
) *PostsService {
	s := &PostsService{
		posts:     posts,
		media:     media,
		objects:   objects,
		tx:        tx,
		events:    events,
		logger:    logger,
		sanitizer: validator.NewPlainText(),
	}
	s.likes = relation.NewToggler(relation.Config{
		Kind:      relation.KindLike,
		Lookup:    s.postExists,
		AllowSelf: true,
	}, edges, tx, events, logger)
	return s
}

// CreatePostParams contains parameters for creating a new post
type CreatePostParams struct {
	MediaID uuid.UUID
	Caption string
}

// CreatePost finishes the upload handshake: the media must exist and belong
// to the actor.
func (s *PostsService) CreatePost(ctx context.Context, actorID uuid.UUID, params CreatePostParams) (*domain.Post, error) {
	caption, err := s.caption(params.Caption)
	if err != nil {
		return nil, err
	}

	media, err := s.media.FindByID(ctx, params.MediaID)
	if errors.Is(err, ports.ErrMediaNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load media")
	}

	if err := ownership.Assert(ownership.ResourceMedia, ownership.ActionAttach, media.OwnerID, actorID); err != nil {
		s.logger.Warn(ctx, "media attach denied", "media_id", media.ID, "actor_id", actorID)
		return nil, err
	}

	post, err := domain.NewPost(media.ID, actorID, caption)
	if err != nil {
		return nil, ErrInvalidCaption.WithDetails(err.Error())
	}

	switch err := s.posts.Create(ctx, post); {
	case errors.Is(err, ports.ErrMediaNotFound):
		return nil, ErrMediaNotFound
	case errors.Is(err, ports.ErrMediaInUse):
		return nil, ErrMediaInUse
	case err != nil:
		return nil, s.internal(ctx, err, "failed to create post")
	}

	s.events.Publish(ctx, eventbus.Event{
		Topic: events.PostCreatedTopic,
		Payload: events.PostCreatedEvent{
			PostID:     post.ID,
			MediaID:    post.MediaID,
			ActorID:    actorID,
			OccurredAt: post.CreatedAt,
		},
	})
	s.logger.Info(ctx, "post created", "post_id", post.ID, "media_id", post.MediaID)
	return post, nil
}

// GetPost returns the post with media, author and likes, plus the flags
// describing the actor's relation to it.
func (s *PostsService) GetPost(ctx context.Context, actorID, postID uuid.UUID) (*domain.PostDetails, error) {
	details, err := s.posts.FindDetails(ctx, postID)
	if errors.Is(err, ports.ErrPostNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load post")
	}

	details.UserLiked = details.LikedBy(actorID)
	details.CreatedByActor = details.Post.OwnerID == actorID
	return details, nil
}

// ToggleLike likes the post, or removes the actor's like if present.
func (s *PostsService) ToggleLike(ctx context.Context, actorID, postID uuid.UUID) (relation.Outcome, error) {
	return s.likes.Toggle(ctx, postID, actorID)
}

// UpdatePostParams contains parameters for updating a post
type UpdatePostParams struct {
	Caption string
}

func (s *PostsService) UpdatePost(ctx context.Context, actorID, postID uuid.UUID, params UpdatePostParams) (*domain.Post, error) {
	caption, err := s.caption(params.Caption)
	if err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Assert(ownership.ResourcePost, ownership.ActionUpdate, post.OwnerID, actorID); err != nil {
		return nil, err
	}

	if err := post.UpdateCaption(caption); err != nil {
		return nil, ErrInvalidCaption.WithDetails(err.Error())
	}

	switch err := s.posts.Update(ctx, post); {
	case errors.Is(err, ports.ErrPostNotFound):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, s.internal(ctx, err, "failed to update post")
	}

	s.events.Publish(ctx, eventbus.Event{
		Topic: events.PostUpdatedTopic,
		Payload: events.PostUpdatedEvent{
			PostID:     post.ID,
			ActorID:    actorID,
			OccurredAt: post.UpdatedAt,
		},
	})
	return post, nil
}

// DeletePost removes the post row, then its media row, then the blob. The
// rows go in one transaction; the blob goes after commit, so a failed blob
// delete leaves an unreferenced blob rather than a post without media.
func (s *PostsService) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := ownership.Assert(ownership.ResourcePost, ownership.ActionDelete, post.OwnerID, actorID); err != nil {
		return err
	}

	media, err := s.media.FindByID(ctx, post.MediaID)
	if err != nil {
		return s.internal(ctx, err, "failed to load post media")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.Delete(ctx, post.ID); err != nil {
			return err
		}
		return s.media.Delete(ctx, media.ID)
	})
	switch {
	case errors.Is(err, ports.ErrPostNotFound):
		return ErrPostNotFound
	case err != nil:
		return s.internal(ctx, err, "failed to delete post")
	}

	blobErr := s.objects.DeleteObject(ctx, media.ObjectKey())

	s.events.Publish(ctx, eventbus.Event{
		Topic: events.PostDeletedTopic,
		Payload: events.PostDeletedEvent{
			PostID:      post.ID,
			MediaID:     media.ID,
			ActorID:     actorID,
			BlobDeleted: blobErr == nil,
			OccurredAt:  time.Now(),
		},
	})

	if blobErr != nil {
		s.logger.Error(ctx, "post deleted but blob delete failed",
			"post_id", post.ID, "object_key", media.ObjectKey(), "error", blobErr)
		return apperror.Internal(blobErr, "post deleted but its image could not be removed")
	}

	s.logger.Info(ctx, "post deleted", "post_id", post.ID)
	return nil
}

// GetMediaURL returns the stored URL of an uploaded image.
func (s *PostsService) GetMediaURL(ctx context.Context, mediaID uuid.UUID) (string, error) {
	media, err := s.media.FindByID(ctx, mediaID)
	if errors.Is(err, ports.ErrMediaNotFound) {
		return "", ErrMediaNotFound
	}
	if err != nil {
		return "", s.internal(ctx, err, "failed to load media")
	}
	return media.URL, nil
}

// GetLatestPost returns the actor's most recent post.
func (s *PostsService) GetLatestPost(ctx context.Context, actorID uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.FindLatestByOwner(ctx, actorID)
	if errors.Is(err, ports.ErrPostNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load latest post")
	}
	return post, nil
}

// ListRecentPosts is the explore feed, newest first.
func (s *PostsService) ListRecentPosts(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	limit = min(limit, MaxFeedSize)

	items, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list posts")
	}
	return items, nil
}

func (s *PostsService) caption(raw string) (string, error) {
	caption := s.sanitizer.Clean(raw)
	if err := domain.ValidateCaption(caption); err != nil {
		return "", ErrInvalidCaption.WithDetails(err.Error())
	}
	return caption, nil
}

func (s *PostsService) getPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, ports.ErrPostNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load post")
	}
	return post, nil
}

func (s *PostsService) postExists(ctx context.Context, id uuid.UUID) error {
	exists, err := s.posts.Exists(ctx, id)
	if err != nil {
		return s.internal(ctx, err, "failed to load post")
	}
	if !exists {
		return ErrPostNotFound
	}
	return nil
}

func (s *PostsService) internal(ctx context.Context, err error, message string) error {
	s.logger.Error(ctx, message, "error", err)
	return apperror.Internal(err, message)
}
