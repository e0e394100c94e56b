package checkout

import (
	"time"

	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTTL is how long a session and its stock holds stay valid.
const DefaultTTL = 10 * time.Minute

var (
	ErrNoItems            = &errs.DomainError{Kind: errs.ErrValidation, Field: "items", Message: "at least one item is required"}
	ErrDirectSingleItem   = &errs.DomainError{Kind: errs.ErrValidation, Field: "items", Message: "direct checkout accepts exactly one item"}
	ErrInvalidSessionType = &errs.DomainError{Kind: errs.ErrValidation, Field: "session_type", Message: "must be cart or direct"}
	ErrInvalidQuantity    = &errs.DomainError{Kind: errs.ErrValidation, Field: "quantity", Message: "must be positive"}
	ErrItemNotInSession   = &errs.DomainError{Kind: errs.ErrValidation, Field: "listing_id", Message: "listing is not part of this session"}
	ErrUnknownSeller      = &errs.DomainError{Kind: errs.ErrItemUnavailable, Field: "seller_id", Message: "seller is not accepting orders"}
	ErrMissingDelivery    = &errs.DomainError{Kind: errs.ErrValidation, Field: "delivery", Message: "delivery method and address are required"}
	ErrMissingPayment     = &errs.DomainError{Kind: errs.ErrValidation, Field: "payment_method", Message: "payment method is required"}
	ErrInvalidTransition  = &errs.DomainError{Kind: errs.ErrSessionNotModifiable, Field: "status", Message: "transition not allowed"}

	ErrSessionExpired       = errs.ErrSessionExpired
	ErrSessionNotModifiable = errs.ErrSessionNotModifiable
)

type SessionType string

const (
	SessionCart   SessionType = "cart"
	SessionDirect SessionType = "direct"
)

func NewSessionType(s string) (SessionType, error) {
	t := SessionType(s)
	switch t {
	case SessionCart, SessionDirect:
		return t, nil
	default:
		return "", ErrInvalidSessionType
	}
}

type Status string

const (
	StatusPending              Status = "pending"
	StatusPaymentIntentCreated Status = "payment_intent_created"
	StatusCompleted            Status = "completed"
	StatusCancelled            Status = "cancelled"
	StatusExpired              Status = "expired"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:              {StatusPaymentIntentCreated: true, StatusCancelled: true, StatusExpired: true},
	StatusPaymentIntentCreated: {StatusCompleted: true, StatusCancelled: true, StatusExpired: true},
	StatusCompleted:            {},
	StatusCancelled:            {},
	StatusExpired:              {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) String() string { return string(s) }

// IsActive is true for statuses that hold stock and count towards the
// one-active-session-per-user limit.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusPaymentIntentCreated
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// Item is a cart line with price, seller and stock captured at session creation.
type Item struct {
	ListingID       uuid.UUID       `json:"listing_id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	Title           string          `json:"title"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitDiscount    decimal.Decimal `json:"unit_discount"`
	Quantity        int             `json:"quantity"`
	StockAtCheckout int             `json:"stock_at_checkout"`
}

func (i Item) EffectivePrice() decimal.Decimal {
	return i.UnitPrice.Sub(i.UnitDiscount)
}

func (i Item) Line() pricing.Line {
	return pricing.Line{UnitPrice: i.UnitPrice, UnitDiscount: i.UnitDiscount, Quantity: i.Quantity}
}

// RequestedItem is the raw buyer input before snapshotting.
type RequestedItem struct {
	ListingID uuid.UUID
	Quantity  int
}

// MergeRequested folds duplicate listings into one line, keeping first-seen order.
func MergeRequested(items []RequestedItem) ([]RequestedItem, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	idx := make(map[uuid.UUID]int, len(items))
	out := make([]RequestedItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if i, ok := idx[it.ListingID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ListingID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

type Address struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func (a Address) IsZero() bool {
	return a.RecipientName == "" && a.Line1 == ""
}

// SellerProfile is what grouping and pricing need to know about a seller.
type SellerProfile struct {
	SellerID uuid.UUID
	ShopName string
	Delivery pricing.DeliverySettings
}

type SellerGroup struct {
	SellerID uuid.UUID         `json:"seller_id"`
	ShopName string            `json:"shop_name"`
	Items    []Item            `json:"items"`
	Pricing  pricing.Breakdown `json:"pricing"`
}
