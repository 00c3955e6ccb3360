package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability is stored with the exact labels the product documents carry.
type Availability string

const (
	InStock    Availability = "In Stock"
	OutOfStock Availability = "Out of Stock"
)

func (a Availability) Valid() bool {
	return a == InStock || a == OutOfStock
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	Availability Availability    `json:"availability"`
	Category     string          `json:"category"`
	Tags         []string        `json:"tags,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DisplayPrice renders the unit price to two decimal places, the only form
// prices are ever shown in.
func (p Product) DisplayPrice() string {
	return p.Price.StringFixed(2)
}
