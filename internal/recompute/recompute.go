package recompute

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Queries when a referenced row does not exist.
// The engine treats it as a zero or no-op result, never as a failure.
var ErrNotFound = errors.New("not found")

// Entity names the table a Change originated from.
type Entity string

const (
	EntityLot        Entity = "lot"
	EntityInventory  Entity = "inventory"
	EntityAssignment Entity = "lot_worker"
	EntityExpense    Entity = "lot_expense"
	EntityPayment    Entity = "payment"
	EntityDaybook    Entity = "day_book"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes a committed-but-not-yet-finalized write. LotID is the owning lot after the write;
// PrevLotID is the lot the row belonged to before an update, when it differs.
type Change struct {
	Entity    Entity
	Op        Op
	ID        int64
	LotID     int64
	PrevLotID int64
}

// PaymentStatus is derived on every reconcile; it is never set by callers.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPartial PaymentStatus = "Partial"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentOverdue PaymentStatus = "Overdue"
)

type CashType string

const (
	CashDebit  CashType = "Debit"
	CashCredit CashType = "Credit"
)

// Signed returns amount for a credit and -amount for a debit.
func (t CashType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == CashCredit {
		return amount
	}

	return amount.Neg()
}

// LaborLine is one lot_worker row as seen by the cost and progress rules.
type LaborLine struct {
	Hours decimal.NullDecimal
	Rate  decimal.NullDecimal
	Units int
}

type InventoryLine struct {
	Quantity decimal.NullDecimal
	UnitCost decimal.NullDecimal
}

// PaymentState is the subset of a ledger row the reconciler reads and writes.
type PaymentState struct {
	ID               int64
	LotID            int64
	AmountPaid       decimal.Decimal
	TotalDue         decimal.NullDecimal
	BalanceRemaining decimal.Decimal
	Status           PaymentStatus
}

type CashEntry struct {
	ID     int64
	Type   CashType
	Amount decimal.Decimal
}

// Queries is the persistence surface the engine needs. Implementations must run every call on the
// caller's open transaction.
type Queries interface {
	InventoryLines(ctx context.Context, lotID int64) ([]InventoryLine, error)
	LaborLines(ctx context.Context, lotID int64) ([]LaborLine, error)
	ExpenseAmounts(ctx context.Context, lotID int64) ([]decimal.NullDecimal, error)
	SetLotTotalCost(ctx context.Context, lotID int64, cost decimal.Decimal) error

	// OrderUnits returns the num_units of the lot's order, or ErrNotFound when the lot or its order is missing.
	OrderUnits(ctx context.Context, lotID int64) (int, error)
	SetLotProgress(ctx context.Context, lotID int64, percent int) error

	Payment(ctx context.Context, paymentID int64) (*PaymentState, error)
	LotTotalCost(ctx context.Context, lotID int64) (decimal.NullDecimal, error)
	PaymentAmounts(ctx context.Context, lotID int64) ([]decimal.Decimal, error)
	OrderDeadline(ctx context.Context, lotID int64) (time.Time, error)
	SavePaymentState(ctx context.Context, p *PaymentState) error

	CashEntry(ctx context.Context, id int64) (*CashEntry, error)
	CashTotalsBefore(ctx context.Context, id int64) (credits, debits decimal.Decimal, err error)
	CashEntriesFrom(ctx context.Context, id int64) ([]CashEntry, error)
	SetBalanceAfter(ctx context.Context, id int64, balance decimal.Decimal) error

	WorkerRate(ctx context.Context, workerID int64) (decimal.Decimal, error)
}

// RateAssignable receives the worker rate snapshot.
type RateAssignable interface {
	SetRatePerHour(rate decimal.Decimal)
}
