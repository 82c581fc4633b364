// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents. JSON carries them as plain decimal
// numbers with at most two fractional digits.
package core

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents of the owner's currency.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is accepted; range checks
// belong to the entity validators.
//
// Examples:
//
//	ParseAmount("12.34") -> 1234, nil
//	ParseAmount("12,34") -> 1234, nil
//	ParseAmount("12.345") -> 1235, nil
//	ParseAmount("-1") -> 0, ErrInvalidAmount
//	ParseAmount("92233720368547758.08") -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	if iv > (math.MaxInt64-fracCents)/100 {
		return 0, ErrInvalidAmount
	}
	return iv*100 + fracCents, nil
}

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// toCents rounds a currency-unit decimal to cents. ok is false when the
// result does not fit in an int64.
func toCents(d decimal.Decimal) (cents int64, ok bool) {
	c := d.Shift(2).Round(0)
	if c.GreaterThan(maxCents) || c.LessThan(minCents) {
		return 0, false
	}
	return c.IntPart(), true
}

// saturate is toCents clamped to the int64 range.
func saturate(d decimal.Decimal) Money {
	cents, ok := toCents(d)
	if ok {
		return Money{Cents: cents}
	}
	if d.IsNegative() {
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: math.MaxInt64}
}

// NewMoney builds a Money from a float amount, rounding to cents.
// Amounts beyond the int64 cent range saturate at its bounds.
func NewMoney(amount float64) Money {
	switch {
	case math.IsNaN(amount):
		return Money{}
	case math.IsInf(amount, 1):
		return Money{Cents: math.MaxInt64}
	case math.IsInf(amount, -1):
		return Money{Cents: math.MinInt64}
	}
	return saturate(decimal.NewFromFloat(amount))
}

// MoneyFromDecimal rounds a currency-unit decimal to cents, saturating like
// NewMoney.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return saturate(d)
}

// Decimal returns the amount as a decimal in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in currency units for display and ratios.
// Use cents for sums to avoid floating-point drift.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// DivRound divides the amount by n and rounds to the nearest cent.
// Dividing by zero yields zero.
func (m Money) DivRound(n int64) Money {
	if n == 0 {
		return Money{}
	}
	return Money{Cents: decimal.NewFromInt(m.Cents).Div(decimal.NewFromInt(n)).Round(0).IntPart()}
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return ErrInvalidAmount
		}
		cents, err := ParseAmount(s)
		if err != nil {
			return err
		}
		m.Cents = cents
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return ErrInvalidAmount
	}
	cents, ok := toCents(d)
	if !ok {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

// Percent returns part/whole*100 rounded to two decimals, or 0 when whole
// is zero.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).Round(2).InexactFloat64()
}

// Round2 rounds f half away from zero to two decimals.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
