package daybookcsv

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a money amount written with optional thousands separators. Both "1,234.56" and
// "1.234,56" are accepted: the right-most separator is the decimal point unless a lone comma is followed
// by exactly three digits, in which case it groups thousands.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastComma > lastDot && lastDot >= 0:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastComma >= 0 && lastDot < 0 && strings.Count(clean, ",") == 1 && len(clean)-lastComma-1 != 3:
		clean = strings.Replace(clean, ",", ".", 1)
	default:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	return d.Round(2), nil
}
