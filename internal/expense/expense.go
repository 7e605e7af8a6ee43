package expense

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("expense not found")

// Expense is a miscellaneous cost booked against a lot (transport, electricity, repairs, ...).
type Expense struct {
	ID          int64
	LotID       int64
	ExpenseType string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Vendor      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
