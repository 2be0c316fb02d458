package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

// Client wraps go-redis client to allow future extensions.
type Client struct {
	*redis.Client
}

// Open creates a new Redis client and pings it (with exponential backoff)
// to validate the connection.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	log := logger.With("redis")
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(func() error {
		if err := c.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("Redis not ready, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", addr).Int("db", db).Msg("Redis client initialized")
	return &Client{Client: c}, nil
}
