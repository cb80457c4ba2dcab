package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tamilprep/qbank-backend/internal/config"
	"github.com/tamilprep/qbank-backend/internal/lock"
)

// NewRedisClient creates and validates a Redis client connection.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return rdb, nil
}

// NewImportLocker returns a Redis-backed import locker when REDIS_URL is set,
// and an in-process one otherwise. The returned close func releases the
// Redis connection, if any.
func NewImportLocker(ctx context.Context, cfg *config.Config, log zerolog.Logger) (lock.Locker, func(), error) {
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, import locks are local to this process")
		return lock.NewLocal(cfg.ImportLockWait), func() {}, nil
	}

	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	locker := lock.NewRedis(rdb, cfg.ImportLockTTL, cfg.ImportLockWait, log)
	return locker, func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("Redis close error")
		}
	}, nil
}
