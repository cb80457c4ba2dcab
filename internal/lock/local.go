package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Local is an in-process Locker, used when Redis is not configured and in tests.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewLocal creates an empty Local locker. A positive wait bounds how long
// Acquire blocks; zero waits until ctx is done.
func NewLocal(wait time.Duration) *Local {
	return &Local{slots: make(map[string]chan struct{}), wait: wait}
}

// Acquire blocks until key is free, wait elapses or ctx is done.
func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	var expired <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case slot <- struct{}{}:
	case <-expired:
		return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}
