package watchlist

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

type RedisStorage struct {
	redis *redis.Client
}

func NewRedisStorage(addr string) *RedisStorage {
	return &RedisStorage{
		redis: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	log.Debugf("Watchlist: redis get key %q, %d bytes", key, len(data))
	return data, err
}

func (s *RedisStorage) Put(ctx context.Context, key string, value []byte) error {
	log.Debugf("Watchlist: redis set key %q, %d bytes", key, len(value))
	return s.redis.Set(ctx, key, value, 0).Err()
}

// Ping checks that the server is reachable.
func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *RedisStorage) Close() error {
	return s.redis.Close()
}
