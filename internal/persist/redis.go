package persist

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore adapts a Redis client to the KVStore interface.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed KVStore.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get returns the value under key, with found=false on a missing key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set writes value under key with no expiry; result history is durable.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

// RedisQueue adapts a Redis list to the ResultQueue interface.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue creates a queue producer pushing onto the named list.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

// Enqueue appends the payload for the history worker.
func (q *RedisQueue) Enqueue(ctx context.Context, payload []byte) error {
	return q.rdb.RPush(ctx, q.key, payload).Err()
}
