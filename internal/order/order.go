package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Order is a client's request for a number of units of one design.
type Order struct {
	ID                 int64
	ClientID           int64
	DesignDescription  string
	NumUnits           int
	Deadline           time.Time
	Color              string
	MaterialType       string
	Status             Status
	TotalEstimatedCost decimal.NullDecimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
