package pricing

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrDeliveryNotOffered    = errors.New("delivery method not offered by seller")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidPolicy         = errors.New("invalid pricing policy")
	ErrInvalidLine           = errors.New("invalid line item")
)

type DeliveryMethod string

const (
	DeliveryPersonal DeliveryMethod = "personal"
	DeliveryCampus   DeliveryMethod = "campus"
	DeliveryPickup   DeliveryMethod = "pickup"
)

func (m DeliveryMethod) String() string { return string(m) }

func (m DeliveryMethod) IsValid() bool {
	switch m {
	case DeliveryPersonal, DeliveryCampus, DeliveryPickup:
		return true
	default:
		return false
	}
}

func NewDeliveryMethod(s string) (DeliveryMethod, error) {
	m := DeliveryMethod(s)
	if !m.IsValid() {
		return "", ErrInvalidDeliveryMethod
	}
	return m, nil
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentFPX  PaymentMethod = "fpx"
	PaymentCash PaymentMethod = "cash"
)

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCard, PaymentFPX, PaymentCash:
		return true
	default:
		return false
	}
}

// RoutesThroughGateway reports whether a gateway fee applies.
func (p PaymentMethod) RoutesThroughGateway() bool {
	return p == PaymentCard || p == PaymentFPX
}

func NewPaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(s)
	if !p.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return p, nil
}

// Policy holds the fee percentages. All values are percentages (2.5 = 2.5%).
type Policy struct {
	PlatformFeePercent      decimal.Decimal
	GatewayFeePercent       decimal.Decimal
	SellerCommissionPercent decimal.Decimal
}

func NewPolicy(platformPct, gatewayPct, commissionPct string) (Policy, error) {
	var p Policy
	var err error
	if p.PlatformFeePercent, err = ParseAmount(platformPct); err != nil {
		return Policy{}, errors.Join(ErrInvalidPolicy, err)
	}
	if p.GatewayFeePercent, err = ParseAmount(gatewayPct); err != nil {
		return Policy{}, errors.Join(ErrInvalidPolicy, err)
	}
	if p.SellerCommissionPercent, err = ParseAmount(commissionPct); err != nil {
		return Policy{}, errors.Join(ErrInvalidPolicy, err)
	}
	for _, v := range []decimal.Decimal{p.PlatformFeePercent, p.GatewayFeePercent, p.SellerCommissionPercent} {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return Policy{}, ErrInvalidPolicy
		}
	}
	return p, nil
}

// DeliverySettings is a seller's delivery fee table.
type DeliverySettings struct {
	PersonalFee decimal.Decimal `json:"personal_fee"`
	CampusFee   decimal.Decimal `json:"campus_fee"`
	PickupFee   decimal.Decimal `json:"pickup_fee"`
	// Zero disables the free-delivery override.
	FreeDeliveryThreshold decimal.Decimal  `json:"free_delivery_threshold"`
	Methods               []DeliveryMethod `json:"methods,omitempty"`
}

// Offers reports whether the seller ships with m. An empty method list offers all.
func (s DeliverySettings) Offers(m DeliveryMethod) bool {
	if len(s.Methods) == 0 {
		return m.IsValid()
	}
	return slices.Contains(s.Methods, m)
}

func (s DeliverySettings) BaseFee(m DeliveryMethod) (decimal.Decimal, error) {
	if !m.IsValid() {
		return decimal.Zero, ErrInvalidDeliveryMethod
	}
	if !s.Offers(m) {
		return decimal.Zero, ErrDeliveryNotOffered
	}
	switch m {
	case DeliveryPersonal:
		return s.PersonalFee, nil
	case DeliveryCampus:
		return s.CampusFee, nil
	default:
		return s.PickupFee, nil
	}
}

// Line is one priced cart line. UnitDiscount is taken off every unit.
type Line struct {
	UnitPrice    decimal.Decimal
	UnitDiscount decimal.Decimal
	Quantity     int
}

func (l Line) Validate() error {
	if l.Quantity <= 0 || l.UnitPrice.IsNegative() || l.UnitDiscount.IsNegative() {
		return ErrInvalidLine
	}
	if l.UnitDiscount.GreaterThan(l.UnitPrice) {
		return ErrInvalidLine
	}
	return nil
}

func (l Line) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Discount() decimal.Decimal {
	return l.UnitDiscount.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Net() decimal.Decimal {
	return l.Gross().Sub(l.Discount())
}

// Breakdown is the priced result for a seller group or a whole session.
type Breakdown struct {
	ItemsTotal     decimal.Decimal `json:"items_total"`
	Discount       decimal.Decimal `json:"discount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
	GatewayFee     decimal.Decimal `json:"gateway_fee"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SellerReceives decimal.Decimal `json:"seller_receives"`
}

// ServiceFee is what the buyer pays on top of goods and delivery.
func (b Breakdown) ServiceFee() decimal.Decimal {
	return b.PlatformFee.Add(b.GatewayFee)
}

func (b Breakdown) Balanced() bool {
	sum := b.Subtotal.Add(b.DeliveryFee).Add(b.PlatformFee).Add(b.GatewayFee)
	return WithinTolerance(sum, b.TotalAmount)
}
