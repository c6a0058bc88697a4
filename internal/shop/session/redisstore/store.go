// Package redisstore keeps sessions in Redis so several shop instances can
// share them.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "fruitshop:session:"

type Store struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	return raw, err
}

// Save stores data with a TTL so Redis drops it on its own.
func (s *Store) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
