package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

// FormatMoney renders an amount with two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatNullMoney renders a derived amount that may not have been computed yet.
func FormatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	return d.Decimal.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return FormatDate(*t)
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return "-"
	}

	return strconv.FormatInt(*id, 10)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative")
	}

	return d, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("must be a positive number")
	}

	return id, nil
}

// parseOptionalID accepts an empty string as "no id".
func parseOptionalID(s string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	id, err := parseID(s)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}

	return t, nil
}
