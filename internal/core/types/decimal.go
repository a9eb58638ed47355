// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// HasScaleAtMost reports whether m has no more than places fractional digits.
// Monetary amounts in this service are constrained to 2 decimal places.
func HasScaleAtMost(m Money, places int32) bool {
	return m.Equal(m.Truncate(places))
}

// RoundMoney rounds to 2 decimal places, the storage scale for all
// monetary columns (NUMERIC(18,2)).
func RoundMoney(m Money) Money {
	return m.Round(2)
}
