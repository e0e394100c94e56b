package order

import (
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"

	"github.com/google/uuid"
)

type Factory struct {
	Clock   clock.Clock
	Numbers NumberGenerator
}

func NewFactory(clock clock.Clock, numbers NumberGenerator) *Factory {
	return &Factory{
		Clock:   clock,
		Numbers: numbers,
	}
}

// FromSellerGroup builds one pending order for a seller group of a session.
// Snapshots are copied by value so later profile edits never reach the order.
func (f *Factory) FromSellerGroup(
	session *checkout.Session,
	group checkout.SellerGroup,
	buyer identity.BuyerSnapshot,
	seller identity.SellerSnapshot,
) (*Order, error) {
	if seller.SellerID != group.SellerID {
		return nil, errs.NewValidation("seller_id", "seller snapshot does not match group")
	}
	now := f.Clock.Now()
	number, err := f.Numbers.Next(now)
	if err != nil {
		return nil, errs.Wrap(err, "generate order number")
	}
	if !ValidNumber(number, now) {
		return nil, ErrInvalidNumber
	}

	items := make([]Item, 0, len(group.Items))
	for _, it := range group.Items {
		items = append(items, Item{
			ListingID:    it.ListingID,
			Title:        it.Title,
			UnitPrice:    it.UnitPrice,
			UnitDiscount: it.UnitDiscount,
			Quantity:     it.Quantity,
			LineTotal:    pricing.Round(it.Line().Net()),
		})
	}

	var addr *checkout.Address
	if a := session.DeliveryAddress(); a != nil {
		cp := *a
		addr = &cp
	}

	p := group.Pricing
	o := &Order{
		id:               uuid.New(),
		number:           number,
		sessionID:        session.ID(),
		buyer:            buyer,
		seller:           seller,
		items:            items,
		itemsTotal:       p.ItemsTotal,
		shippingFee:      p.DeliveryFee,
		serviceFee:       p.ServiceFee(),
		totalDiscount:    p.Discount,
		totalAmount:      p.TotalAmount,
		sellerReceives:   p.SellerReceives,
		deliveryMethod:   session.DeliveryMethod(),
		deliveryAddress:  addr,
		paymentMethod:    session.PaymentMethod(),
		paymentIntentRef: session.PaymentIntentRef(),
		paymentStatus:    PaymentPending,
		status:           StatusPending,
		history: []HistoryEntry{{
			Status:    StatusPending,
			Note:      "order placed",
			UpdatedAt: now,
			UpdatedBy: buyer.UserID,
		}},
		createdAt: now,
		updatedAt: now,
		version:   1,
	}
	if err := o.ValidateTotals(); err != nil {
		return nil, err
	}
	return o, nil
}

// WithNumber returns a copy carrying a fresh order number, used after a
// unique-index collision.
func (f *Factory) WithNumber(o *Order, now time.Time) (*Order, error) {
	number, err := f.Numbers.Next(now)
	if err != nil {
		return nil, errs.Wrap(err, "generate order number")
	}
	cp := *o
	cp.number = number
	return &cp, nil
}
