package utils

import "github.com/shopspring/decimal"

// RoundCents rounds a money amount to cent precision for API responses.
// Engine internals stay float64; rounding happens only at the boundary.
func RoundCents(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}
