package activation

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is where the flag lives when replicas share it.
const DefaultRedisKey = "codemaster:activated"

// RedisStore shares the flag between replicas through a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to redisURL and resets the flag to inactive, so a
// restart always comes up deactivated.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("activation: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("activation: ping redis: %w", err)
	}

	s := &RedisStore{client: client, key: DefaultRedisKey}
	if err := s.Deactivate(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *RedisStore) Activate(ctx context.Context) error {
	if err := s.client.Set(ctx, s.key, "1", 0).Err(); err != nil {
		return fmt.Errorf("activation: set flag: %w", err)
	}
	return nil
}

func (s *RedisStore) Deactivate(ctx context.Context) error {
	if err := s.client.Set(ctx, s.key, "0", 0).Err(); err != nil {
		return fmt.Errorf("activation: set flag: %w", err)
	}
	return nil
}

func (s *RedisStore) IsActive(ctx context.Context) (bool, error) {
	v, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("activation: get flag: %w", err)
	}
	return v == "1", nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
