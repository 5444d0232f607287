// Package core holds the domain types and the pure budget/aggregation logic.
//
// Amounts are fixed-point: int64 cents internally, converted to a two-decimal
// float only at the JSON boundary. Sums never accumulate through float64.
package core

import "math"

// Money is a fixed-point monetary amount in cents.
type Money struct {
	Cents int64
}

// MoneyFromFloat converts a decimal amount (as received in JSON) to cents
// with half-up rounding on the third decimal.
func MoneyFromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// Float returns the two-decimal representation used in responses.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// IsFiniteAmount reports whether a raw JSON number can be treated as an
// amount. NaN and ±Inf come from clients sending garbage through loose
// decoders.
func IsFiniteAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate rejects negative amounts.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
