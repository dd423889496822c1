package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/philly/snapgram/internal/adapters/ratelimit"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/posts/ports"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a nil client when REDIS_URL is unset. An unreachable
// server is logged and also yields nil: throttling is optional.
func ConnectRedis(ctx context.Context, config Config, log logger.Logger) (*redis.Client, func(), error) {
	noop := func() {}
	if config.RedisURL == "" {
		log.Info(ctx, "REDIS_URL not set, upload throttling disabled")
		return nil, noop, nil
	}

	var opts *redis.Options
	if strings.Contains(config.RedisURL, "://") {
		parsed, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: config.RedisURL}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "redis unreachable, upload throttling disabled", "error", err)
		_ = client.Close()
		return nil, noop, nil
	}

	log.Info(ctx, "redis connection established")
	return client, func() { _ = client.Close() }, nil
}

func provideUploadLimiter(client *redis.Client, config Config) ports.UploadLimiter {
	if client == nil || config.UploadRateLimit == 0 {
		return ratelimit.Unlimited{}
	}
	return ratelimit.NewRedisLimiter(client, config.UploadRateLimit, config.UploadRateWindow)
}
