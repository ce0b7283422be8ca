package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityDecimals is how many decimals quantities are displayed with.
const QuantityDecimals = 3

var ErrEmptyQuantity = errors.New("empty quantity")

// ParseQuantity parses a user or backend supplied decimal. Both "12.5" and "12,5" are accepted.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyQuantity
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q", s)
	}
	return d, nil
}

// FormatQuantity renders a quantity with a fixed number of decimals, e.g. 10.000.
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(QuantityDecimals)
}

// clampZero never lets a quantity go below zero.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
