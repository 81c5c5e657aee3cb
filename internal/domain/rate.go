package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rate is an annual interest rate expressed as a percentage (12 means 12%).
// It embeds decimal.Decimal, so JSON and SQL round-tripping come for free.
type Rate struct {
	decimal.Decimal
}

func NewRate(percent decimal.Decimal) Rate {
	return Rate{Decimal: percent}
}

func NewRateFromFloat(percent float64) Rate {
	return Rate{Decimal: decimal.NewFromFloat(percent)}
}

// Fraction converts the percentage to a multiplier (12% -> 0.12).
func (r Rate) Fraction() decimal.Decimal {
	return r.Div(hundred)
}

func (r Rate) IsNegative() bool {
	return r.Decimal.IsNegative()
}
