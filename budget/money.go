package budget

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal parsing and formatting conventions
// =============================================================================
//
// Every monetary and hour quantity in the system travels as a decimal string
// ("17.65", "40"). Parsing is deliberately forgiving: a malformed or missing
// value degrades to zero so that a half-synced document produces wrong totals
// instead of a crash.

// ParseDecimal parses a decimal string, returning zero for anything invalid.
func ParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Fixed2 renders an amount in the two-decimal fixed format used on the wire.
func Fixed2(d decimal.Decimal) string { return d.StringFixed(2) }

// Fixed1 renders hour totals (one decimal place).
func Fixed1(d decimal.Decimal) string { return d.StringFixed(1) }

// Percent converts a "11.2"-style rate string into its fractional multiplier.
func Percent(s string) decimal.Decimal {
	return ParseDecimal(s).Div(decimal.NewFromInt(100))
}
