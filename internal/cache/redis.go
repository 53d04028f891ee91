package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gh:cache:" // gh:cache:{cache_key}

// RedisStore keeps cache entries as Redis strings with native key expiry, so
// expired entries vanish without a cleanup pass.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err()
}

var _ Store = (*RedisStore)(nil)
var _ Store = (*PostgresStore)(nil)
var _ Store = Noop{}
