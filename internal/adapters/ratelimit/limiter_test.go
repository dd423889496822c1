package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/adapters/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, limit int, window time.Duration) (*ratelimit.RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return ratelimit.NewRedisLimiter(rdb, limit, window), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := setup(t, 3, time.Minute)
	ctx := context.Background()
	actor := uuid.New()

	for i := range 3 {
		ok, err := limiter.Allow(ctx, actor)
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}

	ok, err := limiter.Allow(ctx, actor)
	require.NoError(t, err)
	assert.False(t, ok)

	// Other actors have their own budget.
	ok, err = limiter.Allow(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowResets(t *testing.T) {
	limiter, mr := setup(t, 1, time.Minute)
	ctx := context.Background()
	actor := uuid.New()

	ok, err := limiter.Allow(ctx, actor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, actor)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("rl:uploads:"+actor.String()))
	mr.FastForward(time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, actor)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_ReportsUnavailableRedis(t *testing.T) {
	limiter, mr := setup(t, 1, time.Minute)
	mr.Close()

	_, err := limiter.Allow(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestUnlimited(t *testing.T) {
	ok, err := ratelimit.Unlimited{}.Allow(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
}
