package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/posts/domain"
	"github.com/philly/snapgram/internal/posts/ports"
)

// UploadService runs the first phase of the upload handshake: it validates
// the declared file, records the Media row and hands out a presigned URL the
// client PUTs the bytes to.
type UploadService struct {
	media   ports.MediaRepository
	objects ports.ObjectStore
	limiter ports.UploadLimiter
	events  eventbus.Publisher
	logger  logger.Logger
}

func NewUploadService(
	media ports.MediaRepository,
	objects ports.ObjectStore,
	limiter ports.UploadLimiter,
	events eventbus.Publisher,
	logger logger.Logger,
) *UploadService {
	return &UploadService{
		media:   media,
		objects: objects,
		limiter: limiter,
		events:  events,
		logger:  logger,
	}
}

// RequestUpload reports validation failures in the result. The error is only
// set when storage or presigning failed.
func (s *UploadService) RequestUpload(ctx context.Context, actorID uuid.UUID, req domain.UploadRequest) (domain.UploadResult, error) {
	if actorID == uuid.Nil {
		return s.reject(ctx, actorID, domain.ReasonNotSignedIn), nil
	}
	if reason := req.Rejection(); reason != "" {
		return s.reject(ctx, actorID, reason), nil
	}

	allowed, err := s.limiter.Allow(ctx, actorID)
	if err != nil {
		s.logger.Warn(ctx, "upload limiter unavailable, allowing request", "actor_id", actorID, "error", err)
		allowed = true
	}
	if !allowed {
		return s.reject(ctx, actorID, domain.ReasonRateLimited), nil
	}

	key, err := domain.NewObjectKey()
	if err != nil {
		return domain.UploadResult{}, apperror.Internal(err, "failed to generate object key")
	}

	signedURL, err := s.objects.PresignPut(ctx, ports.PresignPutInput{
		Key:            key,
		ContentType:    req.ContentType,
		ContentLength:  req.SizeBytes,
		ChecksumSHA256: req.Checksum,
		Metadata:       map[string]string{"userId": actorID.String()},
		Expires:        domain.UploadURLTTL,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to presign upload", "actor_id", actorID, "error", err)
		return domain.UploadResult{}, apperror.Internal(err, "failed to prepare upload")
	}

	media := domain.NewMedia(signedURL, actorID)
	if err := s.media.Create(ctx, media); err != nil {
		s.logger.Error(ctx, "failed to record media", "actor_id", actorID, "error", err)
		return domain.UploadResult{}, apperror.Internal(err, "failed to prepare upload")
	}

	s.events.Publish(ctx, eventbus.Event{
		Topic: events.MediaRequestedTopic,
		Payload: events.MediaRequestedEvent{
			MediaID:    media.ID,
			ActorID:    actorID,
			OccurredAt: media.CreatedAt,
		},
	})
	s.logger.Debug(ctx, "upload url issued", "media_id", media.ID, "object_key", key)

	return domain.UploadResult{
		Ticket: &domain.UploadTicket{URL: signedURL, MediaID: media.ID},
	}, nil
}

func (s *UploadService) reject(ctx context.Context, actorID uuid.UUID, reason string) domain.UploadResult {
	s.events.Publish(ctx, eventbus.Event{
		Topic: events.MediaRequestedTopic,
		Payload: events.MediaRequestedEvent{
			ActorID:    actorID,
			Reason:     reason,
			OccurredAt: time.Now(),
		},
	})
	return domain.Rejected(reason)
}
