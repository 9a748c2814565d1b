package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const places = 2

var ErrInvalidMoney = errors.New("invalid money amount")

// Parse reads a decimal string with at most two fractional digits.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidMoney)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	if d.Exponent() < -places && !d.Equal(Round(d)) {
		return decimal.Zero, fmt.Errorf("%w: more than %d fractional digits", ErrInvalidMoney, places)
	}
	return Round(d), nil
}

// Round rounds half away from zero to two places, which is half-up for the
// non-negative amounts the engine writes.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(places)
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(places)
}

// FloorZero clamps negative values to zero.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// MustParse is for fixtures and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
