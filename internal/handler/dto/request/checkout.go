package request

import (
	"strings"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/usecase/commands"

	"github.com/google/uuid"
)

type CheckoutItemRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

type AddressRequest struct {
	RecipientName string `json:"recipient_name" binding:"required,max=120"`
	Phone         string `json:"phone" binding:"required,max=32"`
	Line1         string `json:"line1" binding:"required,max=255"`
	Line2         string `json:"line2,omitempty" binding:"max=255"`
	City          string `json:"city,omitempty" binding:"max=120"`
	State         string `json:"state,omitempty" binding:"max=120"`
	Postcode      string `json:"postcode,omitempty" binding:"max=16"`
	Notes         string `json:"notes,omitempty" binding:"max=500"`
}

func (r *AddressRequest) ToDomain() *checkout.Address {
	if r == nil {
		return nil
	}
	return &checkout.Address{
		RecipientName: strings.TrimSpace(r.RecipientName),
		Phone:         strings.TrimSpace(r.Phone),
		Line1:         strings.TrimSpace(r.Line1),
		Line2:         strings.TrimSpace(r.Line2),
		City:          strings.TrimSpace(r.City),
		State:         strings.TrimSpace(r.State),
		Postcode:      strings.TrimSpace(r.Postcode),
		Notes:         strings.TrimSpace(r.Notes),
	}
}

type CreateCheckoutSessionRequest struct {
	SessionType     string                `json:"session_type" binding:"required,oneof=cart direct"`
	Items           []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryMethod  string                `json:"delivery_method,omitempty"`
	DeliveryAddress *AddressRequest       `json:"delivery_address,omitempty"`
	PaymentMethod   string                `json:"payment_method,omitempty"`
}

func (r CreateCheckoutSessionRequest) ToInput() (commands.CreateSessionInput, error) {
	st, err := checkout.NewSessionType(r.SessionType)
	if err != nil {
		return commands.CreateSessionInput{}, err
	}
	return commands.CreateSessionInput{
		Type:            st,
		Items:           toRequested(r.Items),
		DeliveryMethod:  strings.TrimSpace(r.DeliveryMethod),
		DeliveryAddress: r.DeliveryAddress.ToDomain(),
		PaymentMethod:   strings.TrimSpace(r.PaymentMethod),
	}, nil
}

// UpdateCheckoutSessionRequest is a partial update; omitted fields are kept.
// Items lists only the lines whose quantity changes.
type UpdateCheckoutSessionRequest struct {
	DeliveryMethod  *string               `json:"delivery_method,omitempty"`
	DeliveryAddress *AddressRequest       `json:"delivery_address,omitempty"`
	PaymentMethod   *string               `json:"payment_method,omitempty"`
	Items           []CheckoutItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
}

func (r UpdateCheckoutSessionRequest) ToInput() commands.UpdateSessionInput {
	return commands.UpdateSessionInput{
		DeliveryMethod:  r.DeliveryMethod,
		DeliveryAddress: r.DeliveryAddress.ToDomain(),
		PaymentMethod:   r.PaymentMethod,
		Quantities:      toRequested(r.Items),
	}
}

func toRequested(items []CheckoutItemRequest) []checkout.RequestedItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]checkout.RequestedItem, len(items))
	for i, it := range items {
		out[i] = checkout.RequestedItem{ListingID: it.ListingID, Quantity: it.Quantity}
	}
	return out
}
