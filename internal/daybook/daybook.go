package daybook

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

var ErrNotFound = errors.New("day book entry not found")

type Type = recompute.CashType

const (
	TypeDebit  = recompute.CashDebit
	TypeCredit = recompute.CashCredit
)

// Entry is one cash movement. Entries chain by ID: BalanceAfter is the signed total of every entry up to
// and including this one.
type Entry struct {
	ID           int64
	Date         time.Time
	Type         Type
	Amount       decimal.Decimal
	Description  string
	LotID        *int64
	Reference    string
	BalanceAfter decimal.NullDecimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
