package daybook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=daybook
type Repository interface {
	Get(ctx context.Context, id int64) (*Entry, error)
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Get(ctx context.Context, id int64) (*Entry, error)
	Create(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id int64) error
	Queries() recompute.Queries
	Commit() error
	Rollback() error
}

type Recomputer interface {
	Apply(ctx context.Context, q recompute.Queries, c recompute.Change) error
	RechainDaybook(ctx context.Context, q recompute.Queries, fromID int64) (int, error)
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
	Type      *Type
	LotID     *int64
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

type CreateParams struct {
	Date        time.Time
	Type        Type
	Amount      decimal.Decimal
	Description string
	LotID       *int64
	Reference   string
}

func (p CreateParams) entry() *Entry {
	return &Entry{
		Date:        p.Date,
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		LotID:       p.LotID,
		Reference:   p.Reference,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	entries, err := s.CreateBatch(ctx, []CreateParams{params})
	if err != nil {
		return nil, err
	}

	return entries[0], nil
}

// CreateBatch inserts entries in the given order inside one transaction, chaining each as it is written.
// Either every entry is stored or none is.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	release, err := s.locker.Acquire(ctx, lock.DaybookKey)
	if err != nil {
		return nil, fmt.Errorf("locking day book: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin day book create: %w", err)
	}
	defer tx.Rollback()

	entries := make([]*Entry, 0, len(params))

	for _, p := range params {
		e := p.entry()
		if err := tx.Create(ctx, e); err != nil {
			return nil, err
		}

		if err := s.chain(ctx, tx, e, recompute.OpCreate); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit day book create: %w", err)
	}

	if len(entries) > 1 {
		slog.Info("imported day book entries", "count", len(entries), "first_id", entries[0].ID)
	}

	return entries, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Entry, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.List(ctx, filter)
}

// Update stores e and recomputes its own balance only. Later entries keep their stored balances
// until Rechain is run.
func (s *Service) Update(ctx context.Context, e *Entry) error {
	release, err := s.locker.Acquire(ctx, lock.DaybookKey)
	if err != nil {
		return fmt.Errorf("locking day book: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin day book update: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Update(ctx, e); err != nil {
		return err
	}

	if err := s.chain(ctx, tx, e, recompute.OpUpdate); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit day book update: %w", err)
	}

	return nil
}

// Delete removes the entry. Later entries keep their stored balances until Rechain is run.
func (s *Service) Delete(ctx context.Context, id int64) error {
	release, err := s.locker.Acquire(ctx, lock.DaybookKey)
	if err != nil {
		return fmt.Errorf("locking day book: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin day book delete: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.engine.Apply(ctx, tx.Queries(), recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpDelete, ID: id}); err != nil {
		return fmt.Errorf("recompute after day book delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit day book delete: %w", err)
	}

	return nil
}

// Rechain rewrites the balance of every entry with ID >= fromID and returns how many were rewritten.
func (s *Service) Rechain(ctx context.Context, fromID int64) (int, error) {
	release, err := s.locker.Acquire(ctx, lock.DaybookKey)
	if err != nil {
		return 0, fmt.Errorf("locking day book: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin day book rechain: %w", err)
	}
	defer tx.Rollback()

	n, err := s.engine.RechainDaybook(ctx, tx.Queries(), fromID)
	if err != nil {
		return 0, fmt.Errorf("rechain day book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit day book rechain: %w", err)
	}

	return n, nil
}

func (s *Service) chain(ctx context.Context, tx Tx, e *Entry, op recompute.Op) error {
	if err := s.engine.Apply(ctx, tx.Queries(), recompute.Change{Entity: recompute.EntityDaybook, Op: op, ID: e.ID}); err != nil {
		return fmt.Errorf("recompute day book balance %d: %w", e.ID, err)
	}

	fresh, err := tx.Get(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("reload day book entry: %w", err)
	}

	*e = *fresh

	return nil
}
