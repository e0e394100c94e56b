package commands

import (
	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/order"

	"github.com/google/uuid"
)

// Inputs are plain values so the handler layer owns all wire parsing.

type CreateSessionInput struct {
	Type            checkout.SessionType
	Items           []checkout.RequestedItem
	DeliveryMethod  string
	DeliveryAddress *checkout.Address
	PaymentMethod   string
}

// Nil fields are left unchanged.
type UpdateSessionInput struct {
	DeliveryMethod  *string
	DeliveryAddress *checkout.Address
	PaymentMethod   *string
	Quantities      []checkout.RequestedItem
}

type StartPaymentResult struct {
	Session      *checkout.Session
	IntentID     string
	ClientSecret string
	// Set when the payment method settles outside the gateway and the
	// orders were placed immediately.
	Orders []*order.Order
}

type ConfirmPaymentResult struct {
	SessionID uuid.UUID
	Orders    []*order.Order
	Duplicate bool
	Ignored   bool
	// Orphaned is set when a captured payment could not be matched to a
	// payable session. It is recorded for refund instead of placing orders.
	Orphaned     bool
	OrphanReason string
}

type UpdateOrderStatusInput struct {
	Status string
	Note   string
}
