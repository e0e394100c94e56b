package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is the live catalogue row read at checkout time.
type Listing struct {
	ID       uuid.UUID
	SellerID uuid.UUID
	Title    string
	Price    decimal.Decimal
	Discount decimal.Decimal
	Stock    int
	IsActive bool
}

func (l Listing) EffectivePrice() decimal.Decimal {
	p := l.Price.Sub(l.Discount)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

func (l Listing) CanFulfil(qty int) bool {
	return l.IsActive && qty > 0 && l.Stock >= qty
}
