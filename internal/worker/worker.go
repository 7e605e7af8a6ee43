package worker

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("worker not found")

type Worker struct {
	ID          int64
	Name        string
	RatePerHour decimal.Decimal
	SkillType   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
