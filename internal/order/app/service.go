package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	checkout "github.com/Koushik0914/ecospha-organics/internal/checkout/domain"
	"github.com/Koushik0914/ecospha-organics/internal/order/domain"
)

var (
	// ErrNoIdentity is recoverable: the user retries after signing in.
	ErrNoIdentity = errors.New("authentication error, please try again")
	ErrEmptyCart  = errors.New("cart is empty")
	// ErrPaymentMethodDisabled covers the online option, which exists in the
	// model but is not yet integrated.
	ErrPaymentMethodDisabled = errors.New("payment method not available yet")
	ErrInvalidInput          = errors.New("invalid input")
)

type Service struct {
	cart        CartReader
	userOrders  UserOrderRepo
	adminOrders AdminOrderRepo
	flow        FlowAdvancer
	log         *slog.Logger
}

func NewService(cart CartReader, userOrders UserOrderRepo, adminOrders AdminOrderRepo, flow FlowAdvancer, log *slog.Logger) *Service {
	return &Service{
		cart:        cart,
		userOrders:  userOrders,
		adminOrders: adminOrders,
		flow:        flow,
		log:         log.With("component", "order"),
	}
}

// PlaceOrder snapshots the cart, writes the order to the user's history and
// the admin list, clears the snapshotted lines and schedules the flow's
// confirmation advance. The two writes are independent; a partial failure is
// logged as divergence and reported to the caller, with the cart untouched.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, userID string, shipping checkout.ShippingInfo, method domain.PaymentMethod) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, ErrNoIdentity
	}

	switch method {
	case domain.PaymentCOD:
	case domain.PaymentOnline:
		return domain.Order{}, ErrPaymentMethodDisabled
	default:
		return domain.Order{}, fmt.Errorf("%w: payment method %q", ErrInvalidInput, method)
	}

	lines := s.cart.Lines(ctx, sessionID)
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	items := make([]domain.Line, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.Line{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			Price:     l.Product.Price,
			Unit:      l.Product.Unit,
			ImageURL:  l.Product.ImageURL,
		})
	}

	order := domain.Order{
		UserID:        userID,
		CustomerInfo:  shipping,
		Items:         items,
		CartTotal:     s.cart.CartTotal(ctx, sessionID),
		PaymentMethod: method,
		OrderStatus:   domain.StatusPending,
	}

	// Two separate writes with no transactional linkage. The group is not
	// context-derived so one failure does not cancel the other write.
	var (
		created           domain.Order
		userErr, adminErr error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		created, userErr = s.userOrders.Create(ctx, order)
		return nil
	})
	g.Go(func() error {
		_, adminErr = s.adminOrders.Create(ctx, order)
		return nil
	})
	_ = g.Wait()

	if (userErr == nil) != (adminErr == nil) {
		// Open correctness gap per the backend design: the copies have
		// diverged and nothing reconciles them. Alert loudly.
		s.log.Error("order writes diverged",
			"user", userID,
			"user_write_err", userErr,
			"admin_write_err", adminErr,
		)
	}
	if userErr != nil {
		return domain.Order{}, fmt.Errorf("failed to place order: %w", userErr)
	}
	if adminErr != nil {
		return domain.Order{}, fmt.Errorf("failed to place order: %w", adminErr)
	}

	for _, l := range lines {
		s.cart.RemoveItemCompletely(ctx, sessionID, l.Product.ID)
	}

	s.flow.OrderPlaced(sessionID)
	s.log.Info("order placed", "order", created.ID, "user", userID, "items", len(items))
	return created, nil
}

// MyOrders lists the caller's private order history.
func (s *Service) MyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, ErrNoIdentity
	}
	return s.userOrders.ListByUser(ctx, userID)
}

func (s *Service) WatchMyOrders(ctx context.Context, userID string) (<-chan []domain.Order, <-chan error, error) {
	if userID == "" {
		return nil, nil, ErrNoIdentity
	}
	updates, errc := s.userOrders.Watch(ctx, userID)
	return updates, errc, nil
}

// AdminOrders lists the shared admin-visible collection.
func (s *Service) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	return s.adminOrders.List(ctx)
}

func (s *Service) WatchAdminOrders(ctx context.Context) (<-chan []domain.Order, <-chan error) {
	return s.adminOrders.Watch(ctx)
}

// UpdateStatus sets the admin copy's status. Membership in the fixed status
// set is the only check; any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) error {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.adminOrders.UpdateStatus(ctx, orderID, parsed); err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	return nil
}
