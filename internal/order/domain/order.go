package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	checkout "github.com/Koushik0914/ecospha-organics/internal/checkout/domain"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Statuses is the fixed set administrators pick from. Any member may be set
// from any current status; there is deliberately no transition guard on the
// admin side.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	for _, known := range Statuses {
		if Status(s) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "cod"
	// PaymentOnline exists in the model but stays disabled pending gateway
	// integration.
	PaymentOnline PaymentMethod = "online"
)

// Line is a cart line flattened to primitive fields at submission time,
// decoupled from later product edits.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	ImageURL  string          `json:"imageUrl"`
}

// Order is an immutable snapshot created once at submission. Only the admin
// copy's status is ever mutated afterwards; the user copy never changes.
type Order struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId"`
	CustomerInfo  checkout.ShippingInfo `json:"customerInfo"`
	Items         []Line                `json:"items"`
	CartTotal     decimal.Decimal       `json:"cartTotal"`
	PaymentMethod PaymentMethod         `json:"paymentMethod"`
	OrderStatus   Status                `json:"orderStatus"`
	CreatedAt     time.Time             `json:"createdAt"`
}
