//go:build unit || e2e

package builder

import (
	"time"

	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// OrderBuilder produces a balanced order: 2 x 50.00 + 5.00 shipping = 105.00.
type OrderBuilder struct {
	ID             uuid.UUID
	Number         string
	SessionID      uuid.UUID
	Buyer          identity.BuyerSnapshot
	Seller         identity.SellerSnapshot
	DeliveryMethod pricing.DeliveryMethod
	Status         order.Status
	PaymentStatus  order.PaymentStatus
	CreatedAt      time.Time
	Version        int
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:             uuid.New(),
		Number:         "ORD-20250129-A1B2C3",
		SessionID:      uuid.New(),
		Buyer:          NewBuyerBuilder().BuildSnapshot(),
		Seller:         NewSellerBuilder().BuildSnapshot(),
		DeliveryMethod: pricing.DeliveryCampus,
		Status:         order.StatusPending,
		PaymentStatus:  order.PaymentPending,
		CreatedAt:      FixedNow,
		Version:        1,
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithStatus(status order.Status) *OrderBuilder {
	b.Status = status
	return b
}

func (b *OrderBuilder) WithDeliveryMethod(method pricing.DeliveryMethod) *OrderBuilder {
	b.DeliveryMethod = method
	return b
}

func (b *OrderBuilder) WithBuyer(buyer identity.BuyerSnapshot) *OrderBuilder {
	b.Buyer = buyer
	return b
}

func (b *OrderBuilder) WithSeller(seller identity.SellerSnapshot) *OrderBuilder {
	b.Seller = seller
	return b
}

func (b *OrderBuilder) BuildDomain() *order.Order {
	listingID := uuid.New()
	return order.Reconstruct(order.ReconstructParams{
		ID:        b.ID,
		Number:    b.Number,
		SessionID: b.SessionID,
		Buyer:     b.Buyer,
		Seller:    b.Seller,
		Items: []order.Item{{
			ListingID:    listingID,
			Title:        "Calculus textbook",
			UnitPrice:    Money("50.00"),
			UnitDiscount: Money("0"),
			Quantity:     2,
			LineTotal:    Money("100.00"),
		}},
		ItemsTotal:      Money("100.00"),
		ShippingFee:     Money("5.00"),
		ServiceFee:      Money("0"),
		TotalDiscount:   Money("0"),
		TotalAmount:     Money("105.00"),
		SellerReceives:  Money("105.00"),
		DeliveryMethod:  b.DeliveryMethod,
		DeliveryAddress: SampleAddress(),
		PaymentMethod:   pricing.PaymentCard,
		PaymentStatus:   b.PaymentStatus,
		Status:          b.Status,
		History: []order.HistoryEntry{{
			Status:    order.StatusPending,
			Note:      "order placed",
			UpdatedAt: b.CreatedAt,
			UpdatedBy: b.Buyer.UserID,
		}},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
		Version:   b.Version,
	})
}

func (b *OrderBuilder) BuildListItem() *queries.OrderListItem {
	return &queries.OrderListItem{
		ID:            b.ID,
		OrderNumber:   b.Number,
		BuyerID:       b.Buyer.UserID,
		SellerID:      b.Seller.SellerID,
		ShopName:      b.Seller.ShopName,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		ItemCount:     1,
		TotalAmount:   Money("105.00"),
		CreatedAt:     b.CreatedAt,
	}
}

func (b *OrderBuilder) BuildStatusView() *shared.OrderStatusView {
	return &shared.OrderStatusView{
		OrderID:       b.ID,
		OrderNumber:   b.Number,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		BuyerID:       b.Buyer.UserID,
		SellerUserID:  b.Seller.UserID,
		UpdatedAt:     b.CreatedAt,
	}
}
