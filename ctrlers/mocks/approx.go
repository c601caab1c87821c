package mocks

import (
	"github.com/ShibuiDAO/veShibui/types"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Approx reports whether 2*|a-b|/(a+b) <= precision. Two zeros are equal.
func Approx(a, b decimal.Decimal, precision float64) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	sum := a.Add(b)
	if sum.IsZero() {
		return false
	}
	return a.Sub(b).Abs().Mul(two).Div(sum).LessThanOrEqual(decimal.NewFromFloat(precision))
}

func ApproxAmount(a, b *uint256.Int, precision float64) bool {
	return Approx(types.ToDecimal(a), types.ToDecimal(b), precision)
}
