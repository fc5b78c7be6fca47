// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"errors"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Kind selects the backing store
type Kind string

const (
	KindLocal Kind = "local"
	KindRedis Kind = "redis"
)

// ParseKind maps a CACHE_TYPE value to a store kind.
// Anything but "local" selects redis.
func ParseKind(s string) Kind {
	if s == string(KindLocal) {
		return KindLocal
	}
	return KindRedis
}

var ErrNoRedisClient = errors.New("redis cache selected but request has no redis client")

// Store holds serialized cache entries
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// LocalStore keeps entries in process memory with no expiration
type LocalStore struct {
	items *gocache.Cache
}

func NewLocalStore() *LocalStore {
	return &LocalStore{items: gocache.New(gocache.NoExpiration, 0)}
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (s *LocalStore) Set(_ context.Context, key string, value []byte) error {
	s.items.Set(key, value, gocache.NoExpiration)
	return nil
}

func (s *LocalStore) Clear(_ context.Context) error {
	s.items.Flush()
	return nil
}

// Len returns the number of stored entries
func (s *LocalStore) Len() int {
	return s.items.ItemCount()
}

// RedisStore keeps entries as JSON text in a dedicated redis database
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// Clear flushes the whole redis database the client points at
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.FlushDB(ctx).Err()
}
