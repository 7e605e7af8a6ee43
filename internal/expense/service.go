package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	Get(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, filter ListFilter) ([]*Expense, error)
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Create(ctx context.Context, e *Expense) error
	Update(ctx context.Context, e *Expense) error
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
	LotID       *int64
	ExpenseType string
	Search      string
}

type CreateParams struct {
	LotID       int64
	ExpenseType string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Vendor      string
	Notes       string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	e := &Expense{
		LotID:       params.LotID,
		ExpenseType: params.ExpenseType,
		Amount:      params.Amount,
		ExpenseDate: params.ExpenseDate,
		Vendor:      params.Vendor,
		Notes:       params.Notes,
	}

	release, err := s.locker.Acquire(ctx, lock.LotKey(e.LotID))
	if err != nil {
		return nil, fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin expense create: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Create(ctx, e); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, tx, recompute.Change{Entity: recompute.EntityExpense, Op: recompute.OpCreate, ID: e.ID, LotID: e.LotID}); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, e *Expense) error {
	prev, err := s.repo.Get(ctx, e.ID)
	if err != nil {
		return err
	}

	release, err := lock.AcquireAll(ctx, s.locker, lock.LotKey(e.LotID), lock.LotKey(prev.LotID))
	if err != nil {
		return err
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin expense update: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Update(ctx, e); err != nil {
		return err
	}

	return s.commit(ctx, tx, recompute.Change{
		Entity:    recompute.EntityExpense,
		Op:        recompute.OpUpdate,
		ID:        e.ID,
		LotID:     e.LotID,
		PrevLotID: prev.LotID,
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
		return fmt.Errorf("begin expense delete: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Delete(ctx, id); err != nil {
		return err
	}

	return s.commit(ctx, tx, recompute.Change{Entity: recompute.EntityExpense, Op: recompute.OpDelete, ID: id, LotID: existing.LotID})
}

func (s *Service) commit(ctx context.Context, tx Tx, change recompute.Change) error {
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("recompute after expense %s: %w", change.Op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expense %s: %w", change.Op, err)
	}

	return nil
}
