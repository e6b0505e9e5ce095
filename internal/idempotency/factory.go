package idempotency

import (
	"context"
	"time"

	"pulse-shop/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewStore returns a Redis-backed store when Redis is enabled and reachable,
// and an in-memory store otherwise.
func NewStore(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) Store {
	if !cfg.Enabled {
		logger.Info().Msg("redis disabled, using in-memory idempotency store")
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Warn().
			Err(err).
			Str("addr", cfg.Addr).
			Msg("redis unavailable, falling back to in-memory idempotency store; keys will not be shared between instances")
		return NewMemoryStore()
	}

	logger.Info().Str("addr", cfg.Addr).Msg("using redis idempotency store")
	return NewRedisStore(client, "")
}
