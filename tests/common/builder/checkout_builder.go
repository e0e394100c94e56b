//go:build unit || e2e

package builder

import (
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/handler/dto/request"

	"github.com/google/uuid"
)

// SessionBuilder assembles a priced session without touching a store.
type SessionBuilder struct {
	UserID         uuid.UUID
	Type           checkout.SessionType
	Items          []checkout.Item
	Sellers        map[uuid.UUID]checkout.SellerProfile
	DeliveryMethod pricing.DeliveryMethod
	Address        *checkout.Address
	PaymentMethod  pricing.PaymentMethod
	Status         checkout.Status
	IntentRef      string
	Now            time.Time
	Policy         pricing.Policy
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		UserID:         uuid.New(),
		Type:           checkout.SessionCart,
		Sellers:        map[uuid.UUID]checkout.SellerProfile{},
		DeliveryMethod: pricing.DeliveryPickup,
		PaymentMethod:  pricing.PaymentCash,
		Status:         checkout.StatusPending,
		Now:            FixedNow,
		Policy:         pricing.Policy{},
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(b)
	return b
}

func (b *SessionBuilder) WithUser(userID uuid.UUID) *SessionBuilder {
	b.UserID = userID
	return b
}

// WithItem adds qty units of a listing sold by seller.
func (b *SessionBuilder) WithItem(seller checkout.SellerProfile, l ListingBuilder, qty int) *SessionBuilder {
	b.Sellers[seller.SellerID] = seller
	b.Items = append(b.Items, checkout.Item{
		ListingID:       l.ID,
		SellerID:        seller.SellerID,
		Title:           l.Title,
		UnitPrice:       Money(l.Price),
		UnitDiscount:    Money(l.Discount),
		Quantity:        qty,
		StockAtCheckout: l.Stock,
	})
	return b
}

func (b *SessionBuilder) WithDelivery(method pricing.DeliveryMethod, addr *checkout.Address) *SessionBuilder {
	b.DeliveryMethod = method
	b.Address = addr
	return b
}

func (b *SessionBuilder) WithPayment(method pricing.PaymentMethod) *SessionBuilder {
	b.PaymentMethod = method
	return b
}

func (b *SessionBuilder) WithStatus(status checkout.Status, intentRef string) *SessionBuilder {
	b.Status = status
	b.IntentRef = intentRef
	return b
}

func (b *SessionBuilder) WithNow(now time.Time) *SessionBuilder {
	b.Now = now
	return b
}

// Build panics on invalid input; it is only meant for fixtures.
func (b *SessionBuilder) Build() *checkout.Session {
	if len(b.Items) == 0 {
		seller := NewSellerBuilder()
		b.WithItem(seller.BuildProfile(), *seller.Listing().WithPrice("100.00"), 1)
	}
	s, err := checkout.NewSession(checkout.NewSessionParams{
		UserID:         b.UserID,
		Type:           b.Type,
		Items:          b.Items,
		DeliveryMethod: b.DeliveryMethod,
		PaymentMethod:  b.PaymentMethod,
		Now:            b.Now,
	})
	if err != nil {
		panic(err)
	}
	s.SetDelivery(b.DeliveryMethod, b.Address, b.Now)
	if err := s.Reprice(pricing.NewEngine(b.Policy), b.Sellers); err != nil {
		panic(err)
	}
	if b.Status == checkout.StatusPending {
		return s
	}
	return checkout.ReconstructSession(checkout.ReconstructParams{
		ID:               s.ID(),
		UserID:           s.UserID(),
		Type:             s.Type(),
		Items:            s.Items(),
		SellerGroups:     s.SellerGroups(),
		Pricing:          s.Pricing(),
		DeliveryMethod:   s.DeliveryMethod(),
		DeliveryAddress:  s.DeliveryAddress(),
		PaymentMethod:    s.PaymentMethod(),
		PaymentIntentRef: b.IntentRef,
		Status:           b.Status,
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
		ExpiresAt:        s.ExpiresAt(),
		Version:          s.Version(),
	})
}

func (b *SessionBuilder) Owner() identity.Actor {
	return identity.Actor{UserID: b.UserID, Role: identity.RoleBuyer}
}

func SampleAddress() *checkout.Address {
	return &checkout.Address{
		RecipientName: "Daniel",
		Phone:         "+60198765432",
		Line1:         "Kolej Kediaman 5, Block B",
		City:          "Skudai",
		State:         "Johor",
		Postcode:      "81310",
	}
}

// ------------------------------------------------------------
// Request DTOs
// ------------------------------------------------------------

type CreateSessionRequestBuilder struct {
	req request.CreateCheckoutSessionRequest
}

func NewCreateSessionRequestBuilder() *CreateSessionRequestBuilder {
	return &CreateSessionRequestBuilder{req: request.CreateCheckoutSessionRequest{
		SessionType:    string(checkout.SessionCart),
		DeliveryMethod: string(pricing.DeliveryPickup),
		PaymentMethod:  string(pricing.PaymentCard),
	}}
}

func (b *CreateSessionRequestBuilder) WithType(t string) *CreateSessionRequestBuilder {
	b.req.SessionType = t
	return b
}

func (b *CreateSessionRequestBuilder) WithItem(listingID uuid.UUID, qty int) *CreateSessionRequestBuilder {
	b.req.Items = append(b.req.Items, request.CheckoutItemRequest{ListingID: listingID, Quantity: qty})
	return b
}

func (b *CreateSessionRequestBuilder) WithPayment(method string) *CreateSessionRequestBuilder {
	b.req.PaymentMethod = method
	return b
}

func (b *CreateSessionRequestBuilder) WithDelivery(method string, addr *request.AddressRequest) *CreateSessionRequestBuilder {
	b.req.DeliveryMethod = method
	b.req.DeliveryAddress = addr
	return b
}

func (b *CreateSessionRequestBuilder) Build() request.CreateCheckoutSessionRequest {
	return b.req
}

func SampleAddressRequest() *request.AddressRequest {
	a := SampleAddress()
	return &request.AddressRequest{
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Line1:         a.Line1,
		City:          a.City,
		State:         a.State,
		Postcode:      a.Postcode,
	}
}
