// Package ratelimit throttles upload handshakes with fixed windows counted
// in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/posts/ports"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rl:uploads:"

// RedisLimiter allows Limit calls per actor in each Window.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

var _ ports.UploadLimiter = (*RedisLimiter)(nil)

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window}
}

// Allow counts the call and reports whether it is within the limit. Errors
// mean Redis could not be reached; callers decide whether to fail open.
func (l *RedisLimiter) Allow(ctx context.Context, actorID uuid.UUID) (bool, error) {
	key := keyPrefix + actorID.String()

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return cnt <= l.limit, nil
}

// Unlimited is used when no Redis is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, uuid.UUID) (bool, error) { return true, nil }

var _ ports.UploadLimiter = Unlimited{}
