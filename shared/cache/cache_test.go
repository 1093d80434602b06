package cache_test

import (
	"context"
	"testing"
	"time"
	otelMocks "tutorbook/infras/otel/mocks"
	"tutorbook/shared/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, otelMocks.NewOtel()), server
}

func TestRedisCache_Increment(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	count, err := redisCache.Increment(ctx, "limiter:write:192.0.2.1", 60)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, time.Minute, server.TTL("limiter:write:192.0.2.1"))

	server.FastForward(30 * time.Second)

	count, err = redisCache.Increment(ctx, "limiter:write:192.0.2.1", 60)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 30*time.Second, server.TTL("limiter:write:192.0.2.1"), "later hits keep the window")

	server.FastForward(31 * time.Second)

	count, err = redisCache.Increment(ctx, "limiter:write:192.0.2.1", 60)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a new window starts after expiry")
}

func TestRedisCache_SaveGetDelete(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	type stored struct {
		Status int    `json:"status"`
		Body   string `json:"body"`
	}

	require.NoError(t, redisCache.Save(ctx, "idempotency:key-1", stored{Status: 201, Body: "{}"}, 3600))
	assert.Equal(t, time.Hour, server.TTL("idempotency:key-1"))

	var got stored
	require.NoError(t, redisCache.Get(ctx, "idempotency:key-1", &got))
	assert.Equal(t, stored{Status: 201, Body: "{}"}, got)

	require.NoError(t, redisCache.Delete(ctx, "idempotency:key-1"))

	err := redisCache.Get(ctx, "idempotency:key-1", &got)
	assert.ErrorIs(t, err, cache.Nil)
}
