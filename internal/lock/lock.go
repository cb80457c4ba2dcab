// Package lock serializes question bank imports that share a
// deduplication scope.
package lock

import (
	"context"
	"errors"
)

// ErrTimeout is returned when a lock could not be acquired in time.
var ErrTimeout = errors.New("timed out waiting for import lock")

// Locker hands out exclusive, named locks. The returned release func must be
// called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
