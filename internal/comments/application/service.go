package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/comments/domain"
	"github.com/philly/snapgram/internal/comments/ports"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/ownership"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/platform/transaction"
	"github.com/philly/snapgram/internal/platform/validator"
)

var (
	ErrPostNotFound = apperror.NotFound(apperror.BusinessCodePostNotFound, "Post not found")

	ErrCommentNotFound = apperror.NotFound(apperror.BusinessCodeCommentNotFound, "Comment not found")

	ErrInvalidComment = apperror.Validation(apperror.BusinessCodeInvalidComment, "Comment must be between 1 and 200 characters")
)

// CommentsService handles comments on posts and their likes.
type CommentsService struct {
	comments  ports.CommentRepository
	posts     ports.PostChecker
	likes     *relation.Toggler
	events    eventbus.Publisher
	logger    logger.Logger
	sanitizer *validator.PlainText
}

func NewCommentsService(
	comments ports.CommentRepository,
	posts ports.PostChecker,
	edges relation.EdgeStore,
	tx transaction.Manager,
	events eventbus.Publisher,
	logger logger.Logger,
) *CommentsService {
	s := &CommentsService{
		comments:  comments,
		posts:     posts,
		events:    events,
		logger:    logger,
		sanitizer: validator.NewPlainText(),
	}
	s.likes = relation.NewToggler(relation.Config{
		Kind:      relation.KindCommentLike,
		Lookup:    s.commentExists,
		AllowSelf: true,
	}, edges, tx, events, logger)
	return s
}

type CreateCommentParams struct {
	PostID uuid.UUID
	Text   string
}

func (s *CommentsService) CreateComment(ctx context.Context, actorID uuid.UUID, params CreateCommentParams) (*domain.Comment, error) {
	comment, err := domain.NewComment(params.PostID, actorID, s.sanitizer.Clean(params.Text))
	switch {
	case errors.Is(err, domain.ErrMissingPost):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, ErrInvalidComment.WithDetails(err.Error())
	}

	exists, err := s.posts.Exists(ctx, params.PostID)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load post")
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	switch err := s.comments.Create(ctx, comment); {
	case errors.Is(err, ports.ErrPostNotFound):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, s.internal(ctx, err, "failed to create comment")
	}

	s.events.Publish(ctx, eventbus.Event{
		Topic: events.CommentCreatedTopic,
		Payload: events.CommentCreatedEvent{
			CommentID:  comment.ID,
			PostID:     comment.PostID,
			ActorID:    actorID,
			OccurredAt: comment.CreatedAt,
		},
	})
	return comment, nil
}

// ListComments returns the post's comments newest first. An unknown post has
// no comments.
func (s *CommentsService) ListComments(ctx context.Context, actorID, postID uuid.UUID) ([]domain.CommentView, error) {
	views, err := s.comments.ListByPost(ctx, postID, actorID)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list comments")
	}
	for i := range views {
		views[i].CreatedByActor = views[i].Comment.AuthorID == actorID
	}
	return views, nil
}

func (s *CommentsService) ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (relation.Outcome, error) {
	return s.likes.Toggle(ctx, commentID, actorID)
}

// DeleteComment removes the comment; its likes go with it.
func (s *CommentsService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if errors.Is(err, ports.ErrCommentNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return s.internal(ctx, err, "failed to load comment")
	}

	if err := ownership.Assert(ownership.ResourceComment, ownership.ActionDelete, comment.AuthorID, actorID); err != nil {
		return err
	}

	switch err := s.comments.Delete(ctx, comment.ID); {
	case errors.Is(err, ports.ErrCommentNotFound):
		return ErrCommentNotFound
	case err != nil:
		return s.internal(ctx, err, "failed to delete comment")
	}

	s.events.Publish(ctx, eventbus.Event{
		Topic: events.CommentDeletedTopic,
		Payload: events.CommentDeletedEvent{
			CommentID:  comment.ID,
			PostID:     comment.PostID,
			ActorID:    actorID,
			OccurredAt: time.Now(),
		},
	})
	return nil
}

func (s *CommentsService) commentExists(ctx context.Context, id uuid.UUID) error {
	exists, err := s.comments.Exists(ctx, id)
	if err != nil {
		return s.internal(ctx, err, "failed to load comment")
	}
	if !exists {
		return ErrCommentNotFound
	}
	return nil
}

func (s *CommentsService) internal(ctx context.Context, err error, message string) error {
	s.logger.Error(ctx, message, "error", err)
	return apperror.Internal(err, message)
}
