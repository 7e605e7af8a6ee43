package lot

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=lot
type Repository interface {
	Get(ctx context.Context, id int64) (*Lot, error)
	List(ctx context.Context, filter ListFilter) ([]*Lot, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one SQL transaction. Queries runs on the same transaction so recomputation commits or rolls back
// together with the write.
type Tx interface {
	Get(ctx context.Context, id int64) (*Lot, error)
	Create(ctx context.Context, l *Lot) error
	Update(ctx context.Context, l *Lot) error
	Delete(ctx context.Context, id int64) error
	Queries() recompute.Queries
	Commit() error
	Rollback() error
}

type Recomputer interface {
	Apply(ctx context.Context, q recompute.Queries, c recompute.Change) error
}

type Service struct {
	repo   Repository
	engine Recomputer
	locker lock.Locker
}

func NewService(repo Repository, engine Recomputer, locker lock.Locker) *Service {
	return &Service{repo: repo, engine: engine, locker: locker}
}

type ListFilter struct {
	OrderID *int64
	Status  *Status
	Search  string
}

type CreateParams struct {
	OrderID      int64
	Status       Status
	StartDate    *time.Time
	EndDate      *time.Time
	CurrentStage string
	Notes        string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Lot, error) {
	l := &Lot{
		OrderID:      params.OrderID,
		Status:       params.Status,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		CurrentStage: params.CurrentStage,
		Notes:        params.Notes,
	}

	if l.Status == "" {
		l.Status = StatusPending
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin lot create: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Create(ctx, l); err != nil {
		return nil, err
	}

	if err := s.finish(ctx, tx, l, recompute.OpCreate); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Lot, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Lot, error) {
	return s.repo.List(ctx, filter)
}

// Update stores l and refreshes its cost and progress. Derived fields on l are replaced with the recomputed values.
func (s *Service) Update(ctx context.Context, l *Lot) error {
	release, err := s.locker.Acquire(ctx, lock.LotKey(l.ID))
	if err != nil {
		return fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin lot update: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Update(ctx, l); err != nil {
		return err
	}

	return s.finish(ctx, tx, l, recompute.OpUpdate)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	release, err := s.locker.Acquire(ctx, lock.LotKey(id))
	if err != nil {
		return fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin lot delete: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.engine.Apply(ctx, tx.Queries(), recompute.Change{Entity: recompute.EntityLot, Op: recompute.OpDelete, ID: id}); err != nil {
		return fmt.Errorf("recompute after lot delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lot delete: %w", err)
	}

	return nil
}

func (s *Service) finish(ctx context.Context, tx Tx, l *Lot, op recompute.Op) error {
	change := recompute.Change{Entity: recompute.EntityLot, Op: op, ID: l.ID, LotID: l.ID}
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("recompute lot %d: %w", l.ID, err)
	}

	fresh, err := tx.Get(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("reload lot: %w", err)
	}

	*l = *fresh

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lot %s: %w", op, err)
	}

	return nil
}
