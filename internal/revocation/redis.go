package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "revoked:"

// RedisStore keeps revocation records in Redis, letting the server's
// native key TTL do the garbage collection.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a store over an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Add(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, redisKeyPrefix+tokenHash, 1, ttl).Err(); err != nil {
		return fmt.Errorf("error saving revocation record: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+tokenHash).Result()
	if err != nil {
		return false, fmt.Errorf("error reading revocation record: %w", err)
	}
	return n > 0, nil
}
