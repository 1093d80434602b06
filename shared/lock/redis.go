package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "lock:"

// unlockScript deletes the key only while it still carries our token.
var unlockScript = goRedis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *goRedis.Client
	opts   Options
}

// NewRedis returns a Locker shared by every process using the same redis database.
// Locks expire after opts.TTL so a crashed holder cannot block a slot forever.
func NewRedis(client *goRedis.Client, opts Options) Locker {
	return &redisLocker{
		client: client,
		opts:   opts,
	}
}

func (l *redisLocker) Acquire(ctx context.Context, keys ...string) (Release, error) {
	return acquire(ctx, l.opts, keys, l.tryAll)
}

func (l *redisLocker) tryAll(ctx context.Context, keys []string) (Release, error) {
	token := uuid.NewString()
	taken := make([]string, 0, len(keys))

	for _, key := range keys {
		ok, err := l.client.SetNX(ctx, redisKeyPrefix+key, token, l.opts.TTL).Result()
		if err != nil {
			l.unlock(context.WithoutCancel(ctx), taken, token)

			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if !ok {
			l.unlock(context.WithoutCancel(ctx), taken, token)

			return nil, errBusy
		}

		taken = append(taken, key)
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			l.unlock(context.WithoutCancel(ctx), taken, token)
		})
	}, nil
}

func (l *redisLocker) unlock(ctx context.Context, keys []string, token string) {
	for _, key := range keys {
		if err := unlockScript.Run(ctx, l.client, []string{redisKeyPrefix + key}, token).Err(); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to release lock")
		}
	}
}
