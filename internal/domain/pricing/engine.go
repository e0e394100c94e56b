package pricing

import (
	"github.com/shopspring/decimal"
)

// Engine is side-effect free; it can be shared between goroutines.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy { return e.policy }

// ComputeSellerGroup prices one seller's lines. An empty delivery method
// prices delivery at zero and an empty payment method skips the gateway fee;
// both are filled in later by a session update.
func (e *Engine) ComputeSellerGroup(lines []Line, dm DeliveryMethod, pm PaymentMethod, settings DeliverySettings) (Breakdown, error) {
	if len(lines) == 0 {
		return Breakdown{}, ErrInvalidLine
	}

	itemsTotal := decimal.Zero
	discount := decimal.Zero
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return Breakdown{}, err
		}
		itemsTotal = itemsTotal.Add(l.Gross())
		discount = discount.Add(l.Discount())
	}
	itemsTotal = Round(itemsTotal)
	discount = Round(discount)
	subtotal := itemsTotal.Sub(discount)

	deliveryFee, err := e.deliveryFee(subtotal, dm, settings)
	if err != nil {
		return Breakdown{}, err
	}

	platformFee := Percent(subtotal, e.policy.PlatformFeePercent)

	gatewayFee := decimal.Zero
	if pm != "" {
		if !pm.IsValid() {
			return Breakdown{}, ErrInvalidPaymentMethod
		}
		if pm.RoutesThroughGateway() {
			gatewayFee = Percent(subtotal.Add(deliveryFee).Add(platformFee), e.policy.GatewayFeePercent)
		}
	}

	commission := Percent(subtotal, e.policy.SellerCommissionPercent)

	return Breakdown{
		ItemsTotal:     itemsTotal,
		Discount:       discount,
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		PlatformFee:    platformFee,
		GatewayFee:     gatewayFee,
		TotalAmount:    subtotal.Add(deliveryFee).Add(platformFee).Add(gatewayFee),
		SellerReceives: subtotal.Add(deliveryFee).Sub(commission),
	}, nil
}

func (e *Engine) deliveryFee(subtotal decimal.Decimal, dm DeliveryMethod, settings DeliverySettings) (decimal.Decimal, error) {
	if dm == "" {
		return decimal.Zero, nil
	}
	fee, err := settings.BaseFee(dm)
	if err != nil {
		return decimal.Zero, err
	}
	if settings.FreeDeliveryThreshold.IsPositive() && subtotal.GreaterThanOrEqual(settings.FreeDeliveryThreshold) {
		return decimal.Zero, nil
	}
	return Round(fee), nil
}

// ComputeAggregate sums the groups field by field.
func (e *Engine) ComputeAggregate(groups []Breakdown) Breakdown {
	agg := Breakdown{
		ItemsTotal:     decimal.Zero,
		Discount:       decimal.Zero,
		Subtotal:       decimal.Zero,
		DeliveryFee:    decimal.Zero,
		PlatformFee:    decimal.Zero,
		GatewayFee:     decimal.Zero,
		TotalAmount:    decimal.Zero,
		SellerReceives: decimal.Zero,
	}
	for _, g := range groups {
		agg.ItemsTotal = agg.ItemsTotal.Add(g.ItemsTotal)
		agg.Discount = agg.Discount.Add(g.Discount)
		agg.Subtotal = agg.Subtotal.Add(g.Subtotal)
		agg.DeliveryFee = agg.DeliveryFee.Add(g.DeliveryFee)
		agg.PlatformFee = agg.PlatformFee.Add(g.PlatformFee)
		agg.GatewayFee = agg.GatewayFee.Add(g.GatewayFee)
		agg.TotalAmount = agg.TotalAmount.Add(g.TotalAmount)
		agg.SellerReceives = agg.SellerReceives.Add(g.SellerReceives)
	}
	return agg
}
