package decimal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses decimal from string. A comma decimal separator
// ("12,50") is accepted since spreadsheets exported in sk_SK use it.
func FromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("empty decimal value")
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

// LineTotal computes quantity * unit price without rounding
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Format renders an amount with two decimal places ("20.00")
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatExact renders a unit price with at least two decimal places and
// never rounds ("10.00", "0.125")
func FormatExact(d decimal.Decimal) string {
	places := int32(2)
	if exp := d.Exponent(); -exp > places {
		places = -exp
	}
	return d.StringFixed(places)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
