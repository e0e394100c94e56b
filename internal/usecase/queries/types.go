package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderListItem is the read-optimized row for order listings
type OrderListItem struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	ShopName      string          `json:"shop_name"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type OrderFilters struct {
	Status string
}

// ListScope selects whose orders are listed.
type ListScope string

const (
	ScopeBuyer  ListScope = "buyer"
	ScopeSeller ListScope = "seller"
)
