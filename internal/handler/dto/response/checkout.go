package response

import (
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/usecase/commands"
)

type PricingResponse struct {
	ItemsTotal     string `json:"items_total"`
	Discount       string `json:"discount"`
	Subtotal       string `json:"subtotal"`
	DeliveryFee    string `json:"delivery_fee"`
	PlatformFee    string `json:"platform_fee"`
	GatewayFee     string `json:"gateway_fee"`
	TotalAmount    string `json:"total_amount"`
	SellerReceives string `json:"seller_receives"`
}

type CheckoutItemResponse struct {
	ListingID       string `json:"listing_id"`
	SellerID        string `json:"seller_id"`
	Title           string `json:"title"`
	UnitPrice       string `json:"unit_price"`
	UnitDiscount    string `json:"unit_discount"`
	Quantity        int    `json:"quantity"`
	StockAtCheckout int    `json:"stock_at_checkout"`
}

type SellerGroupResponse struct {
	SellerID string                 `json:"seller_id"`
	ShopName string                 `json:"shop_name"`
	Items    []CheckoutItemResponse `json:"items"`
	Pricing  PricingResponse        `json:"pricing"`
}

type CheckoutSessionResponse struct {
	ID               string                 `json:"id"`
	SessionType      string                 `json:"session_type"`
	Status           string                 `json:"status"`
	Items            []CheckoutItemResponse `json:"items"`
	SellerGroups     []SellerGroupResponse  `json:"seller_groups"`
	Pricing          PricingResponse        `json:"pricing"`
	DeliveryMethod   string                 `json:"delivery_method,omitempty"`
	DeliveryAddress  *checkout.Address      `json:"delivery_address,omitempty"`
	PaymentMethod    string                 `json:"payment_method,omitempty"`
	PaymentIntentRef string                 `json:"payment_intent_ref,omitempty"`
	ReservationIDs   []string               `json:"reservation_ids"`
	OrderIDs         []string               `json:"order_ids"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	ExpiresAt        time.Time              `json:"expires_at"`
	ExpiresInSeconds int64                  `json:"expires_in_seconds"`
}

// FromCheckoutSession renders the session as seen at now, so a session past
// its deadline reads as expired even before the reaper has closed it.
func FromCheckoutSession(s *checkout.Session, now time.Time) *CheckoutSessionResponse {
	res := &CheckoutSessionResponse{
		ID:               s.ID().String(),
		SessionType:      string(s.Type()),
		Status:           s.EffectiveStatus(now).String(),
		Items:            fromCheckoutItems(s.Items()),
		SellerGroups:     make([]SellerGroupResponse, 0, len(s.SellerGroups())),
		DeliveryMethod:   s.DeliveryMethod().String(),
		DeliveryAddress:  s.DeliveryAddress(),
		PaymentMethod:    s.PaymentMethod().String(),
		PaymentIntentRef: s.PaymentIntentRef(),
		ReservationIDs:   idStrings(s.ReservationIDs()),
		OrderIDs:         idStrings(s.OrderIDs()),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
		ExpiresAt:        s.ExpiresAt(),
	}
	mustCopy(&res.Pricing, s.Pricing())
	for _, g := range s.SellerGroups() {
		gr := SellerGroupResponse{
			SellerID: g.SellerID.String(),
			ShopName: g.ShopName,
			Items:    fromCheckoutItems(g.Items),
		}
		mustCopy(&gr.Pricing, g.Pricing)
		res.SellerGroups = append(res.SellerGroups, gr)
	}
	if s.Status().IsActive() && now.Before(s.ExpiresAt()) {
		res.ExpiresInSeconds = int64(s.ExpiresAt().Sub(now).Seconds())
	}
	return res
}

func fromCheckoutItems(items []checkout.Item) []CheckoutItemResponse {
	out := make([]CheckoutItemResponse, len(items))
	for i := range items {
		mustCopy(&out[i], items[i])
	}
	return out
}

type StartPaymentResponse struct {
	Session      *CheckoutSessionResponse `json:"session"`
	IntentID     string                   `json:"payment_intent_id"`
	ClientSecret string                   `json:"client_secret,omitempty"`
	Orders       []*OrderResponse         `json:"orders,omitempty"`
}

func FromStartPayment(r *commands.StartPaymentResult, now time.Time) *StartPaymentResponse {
	return &StartPaymentResponse{
		Session:      FromCheckoutSession(r.Session, now),
		IntentID:     r.IntentID,
		ClientSecret: r.ClientSecret,
		Orders:       FromOrders(r.Orders),
	}
}

type WebhookResponse struct {
	Received  bool     `json:"received"`
	Duplicate bool     `json:"duplicate,omitempty"`
	Ignored   bool     `json:"ignored,omitempty"`
	Orphaned  bool     `json:"orphaned,omitempty"`
	OrderIDs  []string `json:"order_ids,omitempty"`
}

func FromConfirmPayment(r *commands.ConfirmPaymentResult) *WebhookResponse {
	res := &WebhookResponse{Received: true, Duplicate: r.Duplicate, Ignored: r.Ignored, Orphaned: r.Orphaned}
	for _, o := range r.Orders {
		res.OrderIDs = append(res.OrderIDs, o.ID().String())
	}
	return res
}
