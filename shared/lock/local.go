package lock

import (
	"context"
	"sync"
)

type localLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
	opts Options
}

// NewLocal returns a Locker that only serializes callers inside this process.
func NewLocal(opts Options) Locker {
	return &localLocker{
		held: map[string]struct{}{},
		opts: opts,
	}
}

func (l *localLocker) Acquire(ctx context.Context, keys ...string) (Release, error) {
	return acquire(ctx, l.opts, keys, l.tryAll)
}

func (l *localLocker) tryAll(_ context.Context, keys []string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		if _, busy := l.held[key]; busy {
			return nil, errBusy
		}
	}

	for _, key := range keys {
		l.held[key] = struct{}{}
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()

			for _, key := range keys {
				delete(l.held, key)
			}
		})
	}, nil
}
