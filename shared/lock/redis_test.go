package lock_test

import (
	"context"
	"testing"
	"time"

	"tutorbook/shared/failure"
	"tutorbook/shared/lock"

	"github.com/alicebob/miniredis/v2"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T, maxTries uint) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goRedis.NewClient(&goRedis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	return lock.NewRedis(client, testOptions(maxTries)), server
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	locker, server := newRedisLocker(t, 3)

	release, err := locker.Acquire(context.Background(), "slot:a")
	require.NoError(t, err)

	assert.True(t, server.Exists("lock:slot:a"))
	assert.Equal(t, time.Second, server.TTL("lock:slot:a"))

	_, err = locker.Acquire(context.Background(), "slot:a")
	require.ErrorIs(t, err, failure.ErrUnavailable)

	release()
	release()

	assert.False(t, server.Exists("lock:slot:a"))

	again, err := locker.Acquire(context.Background(), "slot:a")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_AllOrNothing(t *testing.T) {
	locker, server := newRedisLocker(t, 2)

	held, err := locker.Acquire(context.Background(), "slot:b")
	require.NoError(t, err)
	defer held()

	_, err = locker.Acquire(context.Background(), "slot:a", "slot:b")
	require.ErrorIs(t, err, failure.ErrUnavailable)

	assert.False(t, server.Exists("lock:slot:a"))
}

func TestRedisLocker_ExpiredLockIsNotReleasedByItsFormerHolder(t *testing.T) {
	locker, server := newRedisLocker(t, 2)

	stale, err := locker.Acquire(context.Background(), "slot:a")
	require.NoError(t, err)

	server.FastForward(2 * time.Second)
	require.False(t, server.Exists("lock:slot:a"))

	current, err := locker.Acquire(context.Background(), "slot:a")
	require.NoError(t, err)
	defer current()

	stale()

	assert.True(t, server.Exists("lock:slot:a"))
}

func TestRedisLocker_ServerDown(t *testing.T) {
	locker, server := newRedisLocker(t, 2)
	server.Close()

	_, err := locker.Acquire(context.Background(), "slot:a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, failure.ErrUnavailable)
}
