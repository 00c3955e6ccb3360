package domain

import (
	"github.com/shopspring/decimal"

	catalog "github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
)

// Line is one (product, quantity) pairing within a cart. Quantity is always
// positive; a line that would reach zero is removed instead.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
