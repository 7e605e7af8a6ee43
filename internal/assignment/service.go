package assignment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=assignment
type Repository interface {
	Get(ctx context.Context, id int64) (*Assignment, error)
	List(ctx context.Context, filter ListFilter) ([]*Assignment, error)
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Create(ctx context.Context, a *Assignment) error
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id int64) error
	Queries() recompute.Queries
	Commit() error
	Rollback() error
}

type Recomputer interface {
	Apply(ctx context.Context, q recompute.Queries, c recompute.Change) error
	ApplyWorkerRate(ctx context.Context, q recompute.Queries, workerID int64, a recompute.RateAssignable) (bool, error)
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
	LotID    *int64
	WorkerID *int64
}

type CreateParams struct {
	LotID         int64
	WorkerID      int64
	UnitsProduced int
	HoursWorked   decimal.Decimal
	// RatePerHour is kept only when the worker cannot be resolved.
	RatePerHour decimal.NullDecimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Assignment, error) {
	a := &Assignment{
		LotID:         params.LotID,
		WorkerID:      params.WorkerID,
		UnitsProduced: params.UnitsProduced,
		HoursWorked:   params.HoursWorked,
		RatePerHour:   params.RatePerHour,
	}

	err := s.write(ctx, a, recompute.OpCreate, 0, func(tx Tx) error {
		return tx.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Assignment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Assignment, error) {
	return s.repo.List(ctx, filter)
}

// Update re-snapshots the worker's current rate even when the worker did not change. Moving the
// assignment to another lot refreshes both lots.
func (s *Service) Update(ctx context.Context, a *Assignment) error {
	prev, err := s.repo.Get(ctx, a.ID)
	if err != nil {
		return err
	}

	return s.write(ctx, a, recompute.OpUpdate, prev.LotID, func(tx Tx) error {
		return tx.Update(ctx, a)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	release, err := s.locker.Acquire(ctx, lock.LotKey(existing.LotID))
	if err != nil {
		return fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assignment delete: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Delete(ctx, id); err != nil {
		return err
	}

	change := recompute.Change{Entity: recompute.EntityAssignment, Op: recompute.OpDelete, ID: id, LotID: existing.LotID}
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("recompute after assignment delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment delete: %w", err)
	}

	return nil
}

func (s *Service) write(ctx context.Context, a *Assignment, op recompute.Op, prevLotID int64, store func(Tx) error) error {
	keys := []string{lock.LotKey(a.LotID)}
	if prevLotID != 0 {
		keys = append(keys, lock.LotKey(prevLotID))
	}

	release, err := lock.AcquireAll(ctx, s.locker, keys...)
	if err != nil {
		return err
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assignment %s: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := s.engine.ApplyWorkerRate(ctx, tx.Queries(), a.WorkerID, a); err != nil {
		return fmt.Errorf("applying worker rate: %w", err)
	}

	if err := store(tx); err != nil {
		return err
	}

	change := recompute.Change{
		Entity:    recompute.EntityAssignment,
		Op:        op,
		ID:        a.ID,
		LotID:     a.LotID,
		PrevLotID: prevLotID,
	}
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("recompute after assignment %s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment %s: %w", op, err)
	}

	return nil
}
