package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("report subject not found")

// Labor is the work booked against a lot.
type Labor struct {
	UnitsProduced int64
	HoursWorked   decimal.Decimal
	Cost          decimal.Decimal
}

// CashTotals are day book sums for entries tied to one lot.
type CashTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// LotSummary is computed live from the lot's rows, not from its stored total_cost.
type LotSummary struct {
	LotID         int64
	UnitsProduced int64
	HoursWorked   decimal.Decimal
	LaborCost     decimal.Decimal
	MaterialCost  decimal.Decimal
	OtherExpenses decimal.Decimal
	TotalCost     decimal.Decimal
	TotalPayments decimal.Decimal
	Balance       decimal.Decimal // payments minus cost
	DaybookDebit  decimal.Decimal
	DaybookCredit decimal.Decimal
}

type ClientBalance struct {
	ClientID           int64
	TotalPaid          decimal.Decimal
	EstimatedTotalCost decimal.Decimal
	Balance            decimal.Decimal // paid minus cost
}

type DashboardStats struct {
	TotalClients      int64
	ActiveOrders      int64
	OngoingLots       int64
	Revenue           decimal.Decimal // payments dated in the current calendar year
	OverduePayments   int64
	AvgUnitsPerWorker decimal.Decimal // average units_produced per assignment
}

type StatusCount struct {
	Status string
	Count  int64
}

type WorkerOutput struct {
	WorkerID      int64
	Name          string
	UnitsProduced int64
	// Efficiency is the average units per assignment, clamped to [0,100] and rounded to one place.
	Efficiency decimal.Decimal
}

type MaterialUsage struct {
	Material  string
	Used      decimal.Decimal
	TotalCost decimal.Decimal
}

// MonthFigures are one calendar month's totals. Each series is counted on its own date column.
type MonthFigures struct {
	Month    time.Month
	Orders   int64           // orders created
	Lots     int64           // lots created
	Revenue  decimal.Decimal // payments by payment date
	Expenses decimal.Decimal // lot expenses by expense date
}

type ActivityKind string

const (
	ActivityLotCompleted    ActivityKind = "lot_completed"
	ActivityPaymentReceived ActivityKind = "payment_received"
)

type Activity struct {
	Kind     ActivityKind
	RefID    int64 // lot_id or payment_id
	Title    string
	Subtitle string // design description or client name
	Amount   decimal.NullDecimal
	At       time.Time
}
