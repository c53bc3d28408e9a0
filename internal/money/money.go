// Package money converts between decimal amount strings at the API and
// CSV boundaries and the int64 cent values stored in the database.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal string into cents. It accepts an optional
// leading sign and at most two fraction digits. Values with sub-cent
// precision are rejected rather than rounded.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return cents.IntPart(), nil
}

// FormatAmount renders cents as a plain decimal string with two fraction
// digits, e.g. 4500 -> "45.00", -30 -> "-0.30".
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
