package server

import (
	"context"
	"fmt"

	"github.com/philly/snapgram/internal/adapters/s3store"
	"github.com/philly/snapgram/internal/platform/logger"
)

func ConnectObjectStore(ctx context.Context, cfg s3store.Config, log logger.Logger) (*s3store.Store, error) {
	store, err := s3store.New(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to configure object store", "error", err)
		return nil, fmt.Errorf("failed to configure object store: %w", err)
	}
	log.Info(ctx, "object store configured", "bucket", cfg.Bucket, "endpoint", cfg.Endpoint)
	return store, nil
}
