package app

import (
	"context"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Koushik0914/ecospha-organics/internal/cart/domain"
	"github.com/Koushik0914/ecospha-organics/internal/order/domain"
)

// CartReader is the slice of the cart store order submission needs: snapshot
// reads plus the post-success line removal.
type CartReader interface {
	Lines(ctx context.Context, sessionID string) []cartdomain.Line
	CartTotal(ctx context.Context, sessionID string) decimal.Decimal
	RemoveItemCompletely(ctx context.Context, sessionID, productID string)
}

// FlowAdvancer schedules the checkout flow's move to Confirmation once an
// order has been accepted.
type FlowAdvancer interface {
	OrderPlaced(sessionID string)
}

// UserOrderRepo is the submitting user's private order history.
type UserOrderRepo interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Watch(ctx context.Context, userID string) (<-chan []domain.Order, <-chan error)
}

// AdminOrderRepo is the shared admin-visible order list. It carries the only
// mutable order field, orderStatus.
type AdminOrderRepo interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.Status) error
	Watch(ctx context.Context) (<-chan []domain.Order, <-chan error)
}
