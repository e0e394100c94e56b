package order

import (
	"slices"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTotalsMismatch   = &errs.DomainError{Kind: errs.ErrOrderCreation, Field: "total_amount", Message: "does not match items, shipping, fees and discount"}
	ErrDiscountTooLarge = &errs.DomainError{Kind: errs.ErrOrderCreation, Field: "total_discount", Message: "exceeds items total plus shipping"}
	ErrNoOrderItems     = &errs.DomainError{Kind: errs.ErrOrderCreation, Field: "items", Message: "order has no items"}
	ErrInvalidNumber    = &errs.DomainError{Kind: errs.ErrOrderCreation, Field: "order_number", Message: "malformed order number"}
)

type Item struct {
	ListingID    uuid.UUID       `json:"listing_id"`
	Title        string          `json:"title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitDiscount decimal.Decimal `json:"unit_discount"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// HistoryEntry is one append-only audit record.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy uuid.UUID `json:"updated_by"`
}

type Milestones struct {
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	ProcessingAt *time.Time `json:"processing_at,omitempty"`
	ShippedAt    *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`
}

func (m *Milestones) stamp(s Status, at time.Time) {
	t := at
	switch s {
	case StatusConfirmed:
		m.ConfirmedAt = &t
	case StatusProcessing:
		m.ProcessingAt = &t
	case StatusShipped:
		m.ShippedAt = &t
	case StatusDelivered:
		m.DeliveredAt = &t
	case StatusCompleted:
		m.CompletedAt = &t
	case StatusCancelled:
		m.CancelledAt = &t
	case StatusRefunded:
		m.RefundedAt = &t
	}
}

type Order struct {
	id               uuid.UUID
	number           string
	sessionID        uuid.UUID
	buyer            identity.BuyerSnapshot
	seller           identity.SellerSnapshot
	items            []Item
	itemsTotal       decimal.Decimal
	shippingFee      decimal.Decimal
	serviceFee       decimal.Decimal
	totalDiscount    decimal.Decimal
	totalAmount      decimal.Decimal
	sellerReceives   decimal.Decimal
	deliveryMethod   pricing.DeliveryMethod
	deliveryAddress  *checkout.Address
	paymentMethod    pricing.PaymentMethod
	paymentIntentRef string
	paymentStatus    PaymentStatus
	status           Status
	history          []HistoryEntry
	milestones       Milestones
	createdAt        time.Time
	updatedAt        time.Time
	version          int
}

type ReconstructParams struct {
	ID               uuid.UUID
	Number           string
	SessionID        uuid.UUID
	Buyer            identity.BuyerSnapshot
	Seller           identity.SellerSnapshot
	Items            []Item
	ItemsTotal       decimal.Decimal
	ShippingFee      decimal.Decimal
	ServiceFee       decimal.Decimal
	TotalDiscount    decimal.Decimal
	TotalAmount      decimal.Decimal
	SellerReceives   decimal.Decimal
	DeliveryMethod   pricing.DeliveryMethod
	DeliveryAddress  *checkout.Address
	PaymentMethod    pricing.PaymentMethod
	PaymentIntentRef string
	PaymentStatus    PaymentStatus
	Status           Status
	History          []HistoryEntry
	Milestones       Milestones
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int
}

func Reconstruct(p ReconstructParams) *Order {
	return &Order{
		id:               p.ID,
		number:           p.Number,
		sessionID:        p.SessionID,
		buyer:            p.Buyer,
		seller:           p.Seller,
		items:            p.Items,
		itemsTotal:       p.ItemsTotal,
		shippingFee:      p.ShippingFee,
		serviceFee:       p.ServiceFee,
		totalDiscount:    p.TotalDiscount,
		totalAmount:      p.TotalAmount,
		sellerReceives:   p.SellerReceives,
		deliveryMethod:   p.DeliveryMethod,
		deliveryAddress:  p.DeliveryAddress,
		paymentMethod:    p.PaymentMethod,
		paymentIntentRef: p.PaymentIntentRef,
		paymentStatus:    p.PaymentStatus,
		status:           p.Status,
		history:          p.History,
		milestones:       p.Milestones,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
		version:          p.Version,
	}
}

// ValidateTotals checks the money invariants with a 0.01 tolerance.
func (o *Order) ValidateTotals() error {
	if len(o.items) == 0 {
		return ErrNoOrderItems
	}
	expected := o.itemsTotal.Add(o.shippingFee).Add(o.serviceFee).Sub(o.totalDiscount)
	if !pricing.WithinTolerance(expected, o.totalAmount) {
		return ErrTotalsMismatch
	}
	if o.totalDiscount.GreaterThan(o.itemsTotal.Add(o.shippingFee).Add(pricing.Tolerance)) {
		return ErrDiscountTooLarge
	}
	return nil
}

// UpdateStatus moves the order along the transition table and records who did it.
// A rejected transition leaves the order untouched.
func (o *Order) UpdateStatus(next Status, note string, actorID uuid.UUID, now time.Time) error {
	if !o.pickupSkipAhead(next) {
		if err := ValidateTransition(o.status, next); err != nil {
			return err
		}
	}
	o.status = next
	o.history = append(o.history, HistoryEntry{
		Status:    next,
		Note:      note,
		UpdatedAt: now,
		UpdatedBy: actorID,
	})
	o.milestones.stamp(next, now)
	o.updatedAt = now
	return nil
}

// Pickup orders may be completed straight from pending when the buyer
// collects in person.
func (o *Order) pickupSkipAhead(next Status) bool {
	return o.status == StatusPending && next == StatusCompleted && o.deliveryMethod == pricing.DeliveryPickup
}

// NextStatuses lists the legal targets for this order.
func (o *Order) NextStatuses() []Status {
	next := o.status.NextStatuses()
	if o.pickupSkipAhead(StatusCompleted) {
		next = append(next, StatusCompleted)
	}
	return next
}

func (o *Order) CanCancel() bool {
	return o.status.CanTransitionTo(StatusCancelled)
}

func (o *Order) MarkPaid(intentRef string, now time.Time) {
	if o.paymentStatus == PaymentPaid {
		return
	}
	o.paymentStatus = PaymentPaid
	if intentRef != "" {
		o.paymentIntentRef = intentRef
	}
	o.updatedAt = now
}

// AdvanceVersion is called by the repository after a successful optimistic write.
func (o *Order) AdvanceVersion() { o.version++ }

func (o *Order) Parties() identity.OrderParties {
	return identity.OrderParties{BuyerID: o.buyer.UserID, SellerUserID: o.seller.UserID}
}

func (o *Order) ID() uuid.UUID                          { return o.id }
func (o *Order) Number() string                         { return o.number }
func (o *Order) SessionID() uuid.UUID                   { return o.sessionID }
func (o *Order) Buyer() identity.BuyerSnapshot          { return o.buyer }
func (o *Order) Seller() identity.SellerSnapshot        { return o.seller }
func (o *Order) Items() []Item                          { return slices.Clone(o.items) }
func (o *Order) ItemsTotal() decimal.Decimal            { return o.itemsTotal }
func (o *Order) ShippingFee() decimal.Decimal           { return o.shippingFee }
func (o *Order) ServiceFee() decimal.Decimal            { return o.serviceFee }
func (o *Order) TotalDiscount() decimal.Decimal         { return o.totalDiscount }
func (o *Order) TotalAmount() decimal.Decimal           { return o.totalAmount }
func (o *Order) SellerReceives() decimal.Decimal        { return o.sellerReceives }
func (o *Order) DeliveryMethod() pricing.DeliveryMethod { return o.deliveryMethod }
func (o *Order) DeliveryAddress() *checkout.Address     { return o.deliveryAddress }
func (o *Order) PaymentMethod() pricing.PaymentMethod   { return o.paymentMethod }
func (o *Order) PaymentIntentRef() string               { return o.paymentIntentRef }
func (o *Order) PaymentStatus() PaymentStatus           { return o.paymentStatus }
func (o *Order) Status() Status                         { return o.status }
func (o *Order) History() []HistoryEntry                { return slices.Clone(o.history) }
func (o *Order) Milestones() Milestones                 { return o.milestones }
func (o *Order) CreatedAt() time.Time                   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time                   { return o.updatedAt }
func (o *Order) Version() int                           { return o.version }
