package app

import (
	"context"

	"github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
)

type ProductRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error

	// Watch is a live query: it pushes the full product list on every backend
	// change until ctx is cancelled, then closes both channels.
	Watch(ctx context.Context) (<-chan []domain.Product, <-chan error)
}
