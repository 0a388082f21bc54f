package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store with one string key per document
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore. Keys are "<prefix><collection>:<id>".
func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(collection, id string) string {
	return s.prefix + collection + ":" + id
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}
	data, err := s.rdb.Get(ctx, s.key(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, collection, id string, data []byte) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(collection, id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set document: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, s.key(collection, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
