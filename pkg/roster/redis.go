package roster

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const loadKeyPrefix = "shopmate:staff:load:"

// RedisLoadCounter keeps per-staff open task counts in Redis so several
// API and worker processes see the same live load.
type RedisLoadCounter struct {
	client redis.UniversalClient
}

func NewRedisLoadCounter(redisURL string) (*RedisLoadCounter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	return &RedisLoadCounter{client: redis.NewClient(opts)}, nil
}

func (c *RedisLoadCounter) Get(ctx context.Context, staffID string) (int, error) {
	count, err := c.client.Get(ctx, loadKeyPrefix+staffID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to read load for staff %s: %w", staffID, err)
	}

	return count, nil
}

func (c *RedisLoadCounter) Increment(ctx context.Context, staffID string) error {
	return c.client.Incr(ctx, loadKeyPrefix+staffID).Err()
}

// Decrement lowers the count, clamping at zero so a stray completion
// cannot push the counter negative.
func (c *RedisLoadCounter) Decrement(ctx context.Context, staffID string) error {
	key := loadKeyPrefix + staffID

	count, err := c.client.Decr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count < 0 {
		return c.client.Set(ctx, key, 0, 0).Err()
	}

	return nil
}

func (c *RedisLoadCounter) Close() error {
	return c.client.Close()
}
