package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Koushik0914/ecospha-organics/internal/checkout/domain"
	"github.com/Koushik0914/ecospha-organics/pkg/forms"
)

// ErrInvalidTransition signals a navigation request the current step does not
// allow. Refused transitions never change state.
var ErrInvalidTransition = errors.New("invalid checkout transition")

// CartReader is the narrow view of the cart the flow needs for its
// proceed-to-checkout guard.
type CartReader interface {
	TotalItems(ctx context.Context, sessionID string) int
}

type session struct {
	step        domain.Step
	shipping    domain.ShippingInfo
	hasShipping bool
}

// Flow sequences each session through the checkout steps. Initial step is
// Cart; no step is terminal.
type Flow struct {
	mu       sync.Mutex
	sessions map[string]*session

	cart        CartReader
	confirmWait time.Duration
	log         *slog.Logger
}

func NewFlow(cart CartReader, confirmWait time.Duration, log *slog.Logger) *Flow {
	return &Flow{
		sessions:    make(map[string]*session),
		cart:        cart,
		confirmWait: confirmWait,
		log:         log.With("component", "checkout-flow"),
	}
}

func (f *Flow) Step(sessionID string) domain.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(sessionID).step
}

// Shipping returns the in-progress shipping data, used to pre-fill the form
// when the user edits it from the payment step.
func (f *Flow) Shipping(sessionID string) (domain.ShippingInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	return s.shipping, s.hasShipping
}

// ProceedToCheckout moves Cart -> Shipping, refused when the cart is empty.
func (f *Flow) ProceedToCheckout(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	if s.step != domain.StepCart {
		return ErrInvalidTransition
	}
	if f.cart.TotalItems(ctx, sessionID) == 0 {
		f.log.Debug("cart is empty, staying put", "session", sessionID)
		return ErrInvalidTransition
	}

	s.step = domain.StepShipping
	return nil
}

// SubmitShipping validates the form and, when acceptable, carries the data
// forward into the Payment step. Field errors leave the step unchanged.
func (f *Flow) SubmitShipping(sessionID string, info domain.ShippingInfo) (forms.FieldErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	if s.step != domain.StepShipping {
		return nil, ErrInvalidTransition
	}

	if errs := domain.ValidateShipping(info); !errs.OK() {
		return errs, nil
	}

	s.shipping = info
	s.hasShipping = true
	s.step = domain.StepPayment
	return nil, nil
}

// EditShipping moves Payment -> Shipping with the previously entered data
// retained for pre-filling.
func (f *Flow) EditShipping(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	if s.step != domain.StepPayment {
		return ErrInvalidTransition
	}
	s.step = domain.StepShipping
	return nil
}

// BackToCart abandons an in-progress checkout from Shipping or Payment,
// discarding the transient shipping data.
func (f *Flow) BackToCart(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	if s.step != domain.StepShipping && s.step != domain.StepPayment {
		return ErrInvalidTransition
	}

	s.step = domain.StepCart
	s.shipping = domain.ShippingInfo{}
	s.hasShipping = false
	return nil
}

// OrderPlaced schedules the Payment -> Confirmation advance after the fixed
// post-success wait. The wait is not cancellable.
func (f *Flow) OrderPlaced(sessionID string) {
	time.AfterFunc(f.confirmWait, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.get(sessionID).step = domain.StepConfirmation
	})
}

// ContinueShopping resets all transient checkout state and returns to Cart.
func (f *Flow) ContinueShopping(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	s.step = domain.StepCart
	s.shipping = domain.ShippingInfo{}
	s.hasShipping = false
}

// ViewMyOrders opens the order-history view; it requires an identity.
func (f *Flow) ViewMyOrders(sessionID, userID string) error {
	if userID == "" {
		return ErrInvalidTransition
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.get(sessionID).step = domain.StepMyOrders
	return nil
}

// ViewPage opens one of the informational pages, reachable from Cart only.
func (f *Flow) ViewPage(sessionID string, page domain.Step) error {
	if !page.Informational() {
		return ErrInvalidTransition
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	if s.step != domain.StepCart {
		return ErrInvalidTransition
	}
	s.step = page
	return nil
}

// Reset forces the session back to Cart unconditionally, discarding any
// in-progress checkout. Used when entering the admin panel and on logout.
func (f *Flow) Reset(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.get(sessionID)
	s.step = domain.StepCart
	s.shipping = domain.ShippingInfo{}
	s.hasShipping = false
}

func (f *Flow) get(sessionID string) *session {
	s, ok := f.sessions[sessionID]
	if !ok {
		s = &session{step: domain.StepCart}
		f.sessions[sessionID] = s
	}
	return s
}
