package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/posts/ports"
)

const (
	DefaultOrphanTTL      = 24 * time.Hour
	DefaultSweepBatchSize = 100
)

type SweeperConfig struct {
	OrphanTTL time.Duration
	BatchSize int
}

// MediaSweeper removes Media rows whose upload was requested but never
// turned into a post.
type MediaSweeper struct {
	media   ports.MediaRepository
	objects ports.ObjectStore
	events  eventbus.Publisher
	logger  logger.Logger
	cfg     SweeperConfig
}

func NewMediaSweeper(
	cfg SweeperConfig,
	media ports.MediaRepository,
	objects ports.ObjectStore,
	events eventbus.Publisher,
	logger logger.Logger,
) *MediaSweeper {
	if cfg.OrphanTTL <= 0 {
		cfg.OrphanTTL = DefaultOrphanTTL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultSweepBatchSize
	}
	return &MediaSweeper{media: media, objects: objects, events: events, logger: logger, cfg: cfg}
}

// Sweep deletes one batch of orphans older than the TTL and returns how many
// rows went. A post created between listing and delete wins: the row is
// skipped.
func (s *MediaSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	orphans, err := s.media.ListOrphans(ctx, now.Add(-s.cfg.OrphanTTL), s.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	swept := make([]uuid.UUID, 0, len(orphans))
	for _, m := range orphans {
		if err := ctx.Err(); err != nil {
			break
		}
		err := s.media.Delete(ctx, m.ID)
		switch {
		case errors.Is(err, ports.ErrMediaInUse), errors.Is(err, ports.ErrMediaNotFound):
			continue
		case err != nil:
			s.logger.Error(ctx, "failed to delete orphaned media", "media_id", m.ID, "error", err)
			continue
		}
		swept = append(swept, m.ID)

		// A missing blob is expected when the client never uploaded.
		if err := s.objects.DeleteObject(ctx, m.ObjectKey()); err != nil {
			s.logger.Warn(ctx, "failed to delete orphaned blob", "media_id", m.ID, "error", err)
		}
	}

	if len(swept) > 0 {
		s.events.Publish(ctx, eventbus.Event{
			Topic:   events.MediaSweptTopic,
			Payload: events.MediaSweptEvent{MediaIDs: swept, OccurredAt: now},
		})
		s.logger.Info(ctx, "orphaned media swept", "count", len(swept))
	}
	return len(swept), nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *MediaSweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := s.Sweep(ctx, now); err != nil && ctx.Err() == nil {
				s.logger.Error(ctx, "media sweep failed", "error", err)
			}
		}
	}
}
