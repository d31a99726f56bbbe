package payment

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount (rupees) to minor units (paise), rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

func FromMinorUnits(minor int64) float64 {
	return decimal.NewFromInt(minor).Div(hundred).InexactFloat64()
}
