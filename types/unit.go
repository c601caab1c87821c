package types

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	DECIMAL int32 = 18

	DAY  int64 = 86400
	WEEK int64 = 7 * DAY
)

var (
	oneToken = uint256.NewInt(1_000_000_000_000_000_000)
)

// ToAmount converts the number of tokens into base units (18 decimals).
func ToAmount(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), oneToken)
}

// FromAmountRem returns the whole tokens and the remaining base units.
func FromAmountRem(amt *uint256.Int) (uint64, uint64) {
	r := new(uint256.Int)
	q, r := new(uint256.Int).DivMod(amt, oneToken, r)
	return q.Uint64(), r.Uint64()
}

func OneToken() *uint256.Int {
	return oneToken.Clone()
}

func ToDecimal(amt *uint256.Int) decimal.Decimal {
	return decimal.RequireFromString(amt.Dec())
}

// FormattedString formats `amt` having `decimals` fraction digits.
func FormattedString(amt *uint256.Int, decimals int32) string {
	return ToDecimal(amt).Shift(-decimals).StringFixed(decimals)
}

// WeekFloor rounds `t` down to a multiple of WEEK.
func WeekFloor(t int64) int64 {
	return (t / WEEK) * WEEK
}
