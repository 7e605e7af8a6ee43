package worker

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=worker
type Repository interface {
	Create(ctx context.Context, w *Worker) error
	Get(ctx context.Context, id int64) (*Worker, error)
	List(ctx context.Context, filter ListFilter) ([]*Worker, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	SkillType string
	Search    string
}

type CreateParams struct {
	Name        string
	RatePerHour decimal.Decimal
	SkillType   string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Worker, error) {
	w := &Worker{
		Name:        params.Name,
		RatePerHour: params.RatePerHour,
		SkillType:   params.SkillType,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	return w, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Worker, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Worker, error) {
	return s.repo.List(ctx, filter)
}

// Update stores the worker. Existing assignments keep the rate they were saved with.
func (s *Service) Update(ctx context.Context, w *Worker) error {
	return s.repo.Update(ctx, w)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
