package app

import (
	"context"
	"errors"
)

// ErrNoSavedCart is returned by Storage.Load when nothing has been persisted
// under the key yet.
var ErrNoSavedCart = errors.New("no saved cart")

// Storage is the durable device-storage analogue the cart mirrors itself to
// on every mutation.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
