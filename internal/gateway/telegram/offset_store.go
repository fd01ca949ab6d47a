package telegram

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultOffsetKey is the Redis key holding the next update offset.
const DefaultOffsetKey = "roombot:telegram:offset"

// OffsetStore persists the getUpdates offset between restarts.
type OffsetStore interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, offset int64) error
}

// RedisOffsetStore keeps the offset in a single Redis string.
type RedisOffsetStore struct {
	client *redis.Client
	key    string
}

// NewRedisOffsetStore constructs an offset store. An empty key uses DefaultOffsetKey.
func NewRedisOffsetStore(client *redis.Client, key string) *RedisOffsetStore {
	if key == "" {
		key = DefaultOffsetKey
	}
	return &RedisOffsetStore{client: client, key: key}
}

// Load returns the stored offset, or 0 when none was saved.
func (s *RedisOffsetStore) Load(ctx context.Context) (int64, error) {
	value, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

// Save stores offset.
func (s *RedisOffsetStore) Save(ctx context.Context, offset int64) error {
	return s.client.Set(ctx, s.key, strconv.FormatInt(offset, 10), 0).Err()
}
