package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage stores blobs as plain redis strings without expiry
type RedisStorage struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisStorage(rdb redis.Cmdable, prefix string) *RedisStorage {
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}
