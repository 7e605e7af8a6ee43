package assignment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("assignment not found")

// Assignment records a worker's hours and output on a lot. RatePerHour is a snapshot of the worker's
// rate taken when the assignment was last saved.
type Assignment struct {
	ID            int64
	LotID         int64
	WorkerID      int64
	UnitsProduced int
	HoursWorked   decimal.Decimal
	RatePerHour   decimal.NullDecimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *Assignment) SetRatePerHour(rate decimal.Decimal) {
	a.RatePerHour = decimal.NewNullDecimal(rate)
}

// LaborCost is hours worked times the snapshot rate.
func (a *Assignment) LaborCost() decimal.Decimal {
	if !a.RatePerHour.Valid {
		return decimal.Zero
	}

	return a.HoursWorked.Mul(a.RatePerHour.Decimal)
}
