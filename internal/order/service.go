package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	ClientID *int64
	Status   *Status
	Search   string
}

type CreateParams struct {
	ClientID           int64
	DesignDescription  string
	NumUnits           int
	Deadline           time.Time
	Color              string
	MaterialType       string
	Status             Status
	TotalEstimatedCost decimal.NullDecimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	o := &Order{
		ClientID:           params.ClientID,
		DesignDescription:  params.DesignDescription,
		NumUnits:           params.NumUnits,
		Deadline:           params.Deadline,
		Color:              params.Color,
		MaterialType:       params.MaterialType,
		Status:             params.Status,
		TotalEstimatedCost: params.TotalEstimatedCost,
	}

	if o.Status == "" {
		o.Status = StatusNew
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

// Update stores the order. Lot progress is not refreshed here; it follows the next lot or assignment write.
func (s *Service) Update(ctx context.Context, o *Order) error {
	return s.repo.Update(ctx, o)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
