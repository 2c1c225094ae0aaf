package valueobjects

import (
	"fmt"
	"strings"

	"github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/shopspring/decimal"
)

// Currency represents a valid ISO 4217 currency code
type Currency string

const (
	LKR Currency = "LKR"
	USD Currency = "USD"
)

var validCurrencies = map[Currency]bool{
	LKR: true,
	USD: true,
}

// DefaultCurrency is the currency every trip budget is expressed in.
const DefaultCurrency = LKR

var hundred = decimal.NewFromInt(100)

// Money is a whole-unit monetary value. Trip budgets and prices are
// integral LKR, so fractional amounts only exist mid-calculation.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money instance with validation
func NewMoney(amount decimal.Decimal, currency Currency) (*Money, error) {
	if !isValidCurrency(currency) {
		return nil, errors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}
	return &Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a decimal amount and currency code.
func NewMoneyFromString(amount string, currency string) (*Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.ValidationFailed("invalid amount format", err.Error())
	}
	return NewMoney(d, Currency(strings.ToUpper(currency)))
}

// LKRAmount wraps an integral rupee amount.
func LKRAmount(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount), currency: LKR}
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() Currency {
	return m.currency
}

// Add adds two monetary values of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot add %s to %s", other.currency, m.currency),
		)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub subtracts other. The result may be negative; over-budget amounts are
// reported, not rejected.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot subtract %s from %s", other.currency, m.currency),
		)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Percent returns pct percent of m without rounding.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(pct).Div(hundred), currency: m.currency}
}

// Mul multiplies by an integer factor.
func (m Money) Mul(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n)), currency: m.currency}
}

// Div divides by n. Division by zero yields zero.
func (m Money) Div(n int64) Money {
	if n == 0 {
		return Money{amount: decimal.Zero, currency: m.currency}
	}
	return Money{amount: m.amount.Div(decimal.NewFromInt(n)), currency: m.currency}
}

// Floor0 clamps negative amounts to zero.
func (m Money) Floor0() Money {
	if m.amount.IsNegative() {
		return Money{amount: decimal.Zero, currency: m.currency}
	}
	return m
}

// Units rounds half away from zero to whole currency units.
func (m Money) Units() int64 {
	return RoundHalfAwayFromZero(m.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Compare returns -1, 0 or 1.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot compare %s with %s", m.currency, other.currency),
		)
	}
	return m.amount.Cmp(other.amount), nil
}

// String renders "LKR 12,500" style amounts rounded to whole units.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, GroupThousands(m.Units()))
}

// RoundHalfAwayFromZero rounds d to the nearest integer, halves away from zero.
func RoundHalfAwayFromZero(d decimal.Decimal) int64 {
	// decimal.Round rounds half away from zero.
	return d.Round(0).IntPart()
}

// GroupThousands formats n with comma thousands separators.
func GroupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func isValidCurrency(currency Currency) bool {
	return validCurrencies[currency]
}

const (
	ErrInvalidCurrency  = "INVALID_CURRENCY"
	ErrCurrencyMismatch = "CURRENCY_MISMATCH"
)
