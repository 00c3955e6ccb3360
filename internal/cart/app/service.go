package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Koushik0914/ecospha-organics/internal/cart/domain"
	catalog "github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
)

// storageKeyPrefix is the fixed application key carts persist under; one
// suffixed key per browsing session.
const storageKeyPrefix = "ecospha_cart"

// Service holds the line items for every active session. Lines keep insertion
// order and hold at most one entry per product id. Every mutation mirrors the
// full line collection to Storage; totals are recomputed from current state
// on every read, never cached.
type Service struct {
	mu      sync.Mutex
	storage Storage
	log     *slog.Logger
}

func NewService(storage Storage, log *slog.Logger) *Service {
	return &Service{
		storage: storage,
		log:     log.With("component", "cart"),
	}
}

// Lines returns the current line collection for the session, in insertion
// order. A missing or undecodable saved cart yields an empty one.
func (s *Service) Lines(ctx context.Context, sessionID string) []domain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID)
}

// AddToCart inserts a new line with quantity 1 or increments an existing one.
// Availability is not checked here; refusing out-of-stock products is the
// calling surface's job.
func (s *Service) AddToCart(ctx context.Context, sessionID string, product catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx, sessionID)
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity++
			s.persist(ctx, sessionID, lines)
			return
		}
	}

	lines = append(lines, domain.Line{Product: product, Quantity: 1})
	s.persist(ctx, sessionID, lines)
}

// RemoveFromCart decrements the line for productID, dropping it entirely when
// the quantity is 1. Absent products are a no-op.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx, sessionID)
	for i := range lines {
		if lines[i].Product.ID != productID {
			continue
		}
		if lines[i].Quantity > 1 {
			lines[i].Quantity--
		} else {
			lines = append(lines[:i], lines[i+1:]...)
		}
		s.persist(ctx, sessionID, lines)
		return
	}
}

// RemoveItemCompletely deletes the line regardless of quantity. Idempotent.
func (s *Service) RemoveItemCompletely(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx, sessionID)
	for i := range lines {
		if lines[i].Product.ID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			s.persist(ctx, sessionID, lines)
			return
		}
	}
}

func (s *Service) TotalItems(ctx context.Context, sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.load(ctx, sessionID) {
		total += l.Quantity
	}
	return total
}

func (s *Service) CartTotal(ctx context.Context, sessionID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.load(ctx, sessionID) {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (s *Service) load(ctx context.Context, sessionID string) []domain.Line {
	data, err := s.storage.Load(ctx, storageKey(sessionID))
	if errors.Is(err, ErrNoSavedCart) {
		return nil
	}
	if err != nil {
		s.log.Warn("cart load failed, starting empty", "session", sessionID, "err", err)
		return nil
	}

	var lines []domain.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		s.log.Warn("saved cart undecodable, starting empty", "session", sessionID, "err", err)
		return nil
	}
	return lines
}

func (s *Service) persist(ctx context.Context, sessionID string, lines []domain.Line) {
	data, err := json.Marshal(lines)
	if err != nil {
		s.log.Error("cart marshal failed", "session", sessionID, "err", err)
		return
	}
	if err := s.storage.Save(ctx, storageKey(sessionID), data); err != nil {
		s.log.Error("cart save failed", "session", sessionID, "err", err)
	}
}

func storageKey(sessionID string) string {
	return storageKeyPrefix + ":" + sessionID
}
