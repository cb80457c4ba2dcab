package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by another importer is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const retryInterval = 100 * time.Millisecond

// Redis is a Locker shared by every server instance, built on SET NX PX.
type Redis struct {
	rdb  *redis.Client
	ttl  time.Duration
	wait time.Duration
	log  zerolog.Logger
}

// NewRedis creates a Redis locker. ttl bounds how long a crashed importer can
// hold a scope; wait bounds how long Acquire retries.
func NewRedis(rdb *redis.Client, ttl, wait time.Duration, log zerolog.Logger) *Redis {
	return &Redis{
		rdb:  rdb,
		ttl:  ttl,
		wait: wait,
		log:  log.With().Str("component", "import_lock").Logger(),
	}
}

// Acquire retries SET NX until it wins, wait elapses or ctx is done.
func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	deadline := time.Now().Add(r.wait)

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return func() {
		// Release even if the request context was cancelled mid-import.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, r.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("Failed to release import lock")
		}
	}, nil
}
