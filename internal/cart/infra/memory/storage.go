// Package memory keeps saved carts in process memory. It backs local
// development and tests; deployments use the Redis storage instead.
package memory

import (
	"context"
	"sync"

	"github.com/Koushik0914/ecospha-organics/internal/cart/app"
)

type Storage struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{carts: make(map[string][]byte)}
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.carts[key]
	if !ok {
		return nil, app.ErrNoSavedCart
	}
	return raw, nil
}

func (s *Storage) Save(ctx context.Context, key string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.carts[key] = cp
	return nil
}
