package storage

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopcart-backend/pkg/redis"
)

// RedisStore persists blobs as plain string keys namespaced by scope.
type RedisStore struct {
	client *redis.Client
	scope  string
}

func NewRedisStore(client *redis.Client, scope string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, scope: scope}, nil
}

func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.client.BlobKey(s.scope, name))
	if redis.IsNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load blob %q: %w", name, err)
	}
	return []byte(value), nil
}

func (s *RedisStore) Save(ctx context.Context, name string, value []byte) error {
	if err := s.client.Set(ctx, s.client.BlobKey(s.scope, name), string(value), 0); err != nil {
		return fmt.Errorf("save blob %q: %w", name, err)
	}
	return nil
}

func (s *RedisStore) SaveMany(ctx context.Context, values map[string][]byte) error {
	keyed := make(map[string]string, len(values))
	for name, value := range values {
		keyed[s.client.BlobKey(s.scope, name)] = string(value)
	}
	if err := s.client.SetMany(ctx, keyed); err != nil {
		return fmt.Errorf("save blobs: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.client.BlobKey(s.scope, name)); err != nil {
		return fmt.Errorf("delete blob %q: %w", name, err)
	}
	return nil
}
