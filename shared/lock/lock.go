// Package lock serializes work on a set of keys.
//
// Keys are always acquired in ascending order, so two callers that need
// overlapping key sets can never wait on each other in a cycle. A key that
// stays busy is retried with exponential backoff; once the retry budget is
// spent Acquire returns failure.ErrUnavailable.
package lock

import (
	"context"
	"errors"
	"slices"
	"time"
	"tutorbook/config"
	"tutorbook/shared/failure"

	"github.com/cenkalti/backoff/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var errBusy = errors.New("lock is held")

// Release frees every key taken by a successful Acquire. It is safe to call more than once.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

// Options bounds the contention retry loop.
type Options struct {
	TTL            time.Duration
	MaxTries       uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TTL:            time.Duration(cfg.Booking.Lock.TTLSeconds) * time.Second,
		MaxTries:       cfg.Booking.Lock.MaxTries,
		InitialBackoff: time.Duration(cfg.Booking.Lock.InitialBackoffMillis) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.Booking.Lock.MaxBackoffMillis) * time.Millisecond,
	}
}

// New picks the lock backend configured for this process.
func New(cfg *config.Config, client *goRedis.Client) Locker {
	opts := OptionsFromConfig(cfg)

	if cfg.Booking.Lock.Driver == config.LockDriverRedis {
		log.Info().Msg("Using redis slot locks")

		return NewRedis(client, opts)
	}

	log.Info().Msg("Using process local slot locks")

	return NewLocal(opts)
}

// tryAll is implemented by each backend: take every key or none.
type tryAll func(ctx context.Context, keys []string) (Release, error)

func acquire(ctx context.Context, opts Options, keys []string, try tryAll) (Release, error) {
	keys = normalize(keys)
	if len(keys) == 0 {
		return func() {}, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = opts.InitialBackoff
	policy.MaxInterval = opts.MaxBackoff

	release, err := backoff.Retry(ctx, func() (Release, error) {
		return try(ctx, keys)
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(max(opts.MaxTries, 1)))
	if err != nil {
		if errors.Is(err, errBusy) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Strs("keys", keys).Msg("gave up waiting for lock")

			return nil, failure.ErrUnavailable
		}

		return nil, err //nolint:wrapcheck
	}

	return release, nil
}

// normalize sorts ascending and drops duplicates.
func normalize(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	return slices.Compact(sorted)
}
