package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("inventory usage not found")

// Usage is material consumed by a lot.
type Usage struct {
	ID           int64
	LotID        int64
	MaterialName string
	QuantityUsed decimal.Decimal
	UnitCost     decimal.Decimal
	DateUsed     time.Time
	SupplierName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *Usage) Cost() decimal.Decimal {
	return u.QuantityUsed.Mul(u.UnitCost)
}
