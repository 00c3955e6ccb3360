// Package redis persists cart snapshots in Redis, the service-side analogue
// of the browser's durable local storage.
package redis

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/go-redis/redis/v8"

	"github.com/Koushik0914/ecospha-organics/internal/cart/app"
)

type Storage struct {
	rdb *redis.Client
}

func NewStorage(rdb *redis.Client) *Storage {
	return &Storage{rdb: rdb}
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, app.ErrNoSavedCart
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *Storage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
