package util

import (
	"strconv"
	"strings"
)

// PriceValue is the outcome of normalizing one rate plan cell. Absent means
// the cell holds no price at all ("" or the N/A marker); Valid means the
// cell yielded an integer price. A cell is never both.
type PriceValue struct {
	Absent bool
	Valid  bool
	Price  int
}

// NormalizePrice strips every character that is not an ASCII digit and
// parses the remainder as a non-negative integer in the smallest currency
// unit. "kr 1 999" becomes 1999. Empty cells and "N/A" (any case) are
// absent, not zero; a cell with no digits left is invalid, never a
// zero-price value.
func NormalizePrice(cell string) PriceValue {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || strings.EqualFold(trimmed, "N/A") {
		return PriceValue{Absent: true}
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return PriceValue{}
	}

	price, err := strconv.Atoi(digits.String())
	if err != nil {
		return PriceValue{}
	}
	return PriceValue{Valid: true, Price: price}
}
