package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

var ErrNotFound = errors.New("payment not found")

// Status is derived from the lot's balance and the order deadline on every save.
type Status = recompute.PaymentStatus

const (
	StatusPending = recompute.PaymentPending
	StatusPartial = recompute.PaymentPartial
	StatusPaid    = recompute.PaymentPaid
	StatusOverdue = recompute.PaymentOverdue
)

// Payment is one payment received against a lot's invoice.
type Payment struct {
	ID               int64
	LotID            int64
	ClientID         int64
	PaymentDate      time.Time
	AmountPaid       decimal.Decimal
	PaymentMethod    string
	Notes            string
	TotalDue         decimal.NullDecimal
	BalanceRemaining decimal.NullDecimal
	Status           Status
	InvoiceNumber    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
