package domain

import (
	"fmt"
	"math/big"
)

// Money represents a monetary value with precise decimal arithmetic.
// It uses big.Rat internally to avoid floating-point precision issues.
// Money is immutable - all operations return new instances.
type Money struct {
	amount *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// For example: NewMoney(1999, 100) represents $19.99
func NewMoney(numerator, denominator int64) *Money {
	if denominator == 0 {
		panic("money: denominator cannot be zero")
	}
	return &Money{
		amount: big.NewRat(numerator, denominator),
	}
}

// NewMoneyFromDecimal creates Money from a decimal string.
// For example: "19.99", "100.00", "0.01"
func NewMoneyFromDecimal(decimal string) (*Money, error) {
	rat := new(big.Rat)
	if _, ok := rat.SetString(decimal); !ok {
		return nil, fmt.Errorf("invalid decimal format: %s", decimal)
	}
	return &Money{amount: rat}, nil
}

// Zero returns a Money instance representing zero.
func Zero() *Money {
	return &Money{amount: big.NewRat(0, 1)}
}

// IsZero returns true if the money amount is zero.
func (m *Money) IsZero() bool {
	return m.amount.Sign() == 0
}

// IsNegative returns true if the money amount is negative.
func (m *Money) IsNegative() bool {
	return m.amount.Sign() < 0
}

// Equals returns true if m equals other.
func (m *Money) Equals(other *Money) bool {
	if other == nil {
		return false
	}
	return m.amount.Cmp(other.amount) == 0
}

// Numerator returns the numerator of the internal rational representation.
// Used for database persistence.
func (m *Money) Numerator() int64 {
	return m.amount.Num().Int64()
}

// Denominator returns the denominator of the internal rational representation.
// Used for database persistence.
func (m *Money) Denominator() int64 {
	return m.amount.Denom().Int64()
}

// Float64 returns the money amount as a float64.
// Note: This may lose precision and should only be used for display purposes.
func (m *Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns a decimal string representation with two digits of precision.
func (m *Money) String() string {
	return m.amount.FloatString(2)
}

// FloatString returns a decimal string representation with the specified precision.
// For example: FloatString(2) returns "19.99" for $19.99
func (m *Money) FloatString(precision int) string {
	return m.amount.FloatString(precision)
}
