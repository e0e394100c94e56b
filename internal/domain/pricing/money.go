package pricing

import (
	"github.com/shopspring/decimal"
)

// Tolerance is the maximum drift accepted when comparing money totals.
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Round rounds half away from zero to 2 decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Percent returns pct% of base, rounded.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return decimal.Zero
	}
	return Round(base.Mul(pct).Div(hundred))
}

func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
