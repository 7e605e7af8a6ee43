package lot

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("lot not found")

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"
)

// Lot is a production batch of one order. TotalCost and ProgressPercent are derived from the lot's
// inventory, assignment and expense rows and are overwritten on every write.
type Lot struct {
	ID              int64
	OrderID         int64
	Status          Status
	StartDate       *time.Time
	EndDate         *time.Time
	TotalCost       decimal.NullDecimal
	ProgressPercent int
	CurrentStage    string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
