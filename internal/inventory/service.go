package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	Get(ctx context.Context, id int64) (*Usage, error)
	List(ctx context.Context, filter ListFilter) ([]*Usage, error)
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Create(ctx context.Context, u *Usage) error
	Update(ctx context.Context, u *Usage) error
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
	LotID  *int64
	Search string
}

type CreateParams struct {
	LotID        int64
	MaterialName string
	QuantityUsed decimal.Decimal
	UnitCost     decimal.Decimal
	DateUsed     time.Time
	SupplierName string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Usage, error) {
	u := &Usage{
		LotID:        params.LotID,
		MaterialName: params.MaterialName,
		QuantityUsed: params.QuantityUsed,
		UnitCost:     params.UnitCost,
		DateUsed:     params.DateUsed,
		SupplierName: params.SupplierName,
	}

	err := s.write(ctx, recompute.OpCreate, u.LotID, 0, func(tx Tx) (int64, error) {
		if err := tx.Create(ctx, u); err != nil {
			return 0, err
		}

		return u.ID, nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Usage, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Usage, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, u *Usage) error {
	prev, err := s.repo.Get(ctx, u.ID)
	if err != nil {
		return err
	}

	return s.write(ctx, recompute.OpUpdate, u.LotID, prev.LotID, func(tx Tx) (int64, error) {
		return u.ID, tx.Update(ctx, u)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.write(ctx, recompute.OpDelete, existing.LotID, 0, func(tx Tx) (int64, error) {
		return id, tx.Delete(ctx, id)
	})
}

// write runs store and the lot cost refresh in one transaction while holding the lot locks.
func (s *Service) write(ctx context.Context, op recompute.Op, lotID, prevLotID int64, store func(Tx) (int64, error)) error {
	keys := []string{lock.LotKey(lotID)}
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
		return fmt.Errorf("begin inventory %s: %w", op, err)
	}
	defer tx.Rollback()

	id, err := store(tx)
	if err != nil {
		return err
	}

	change := recompute.Change{Entity: recompute.EntityInventory, Op: op, ID: id, LotID: lotID, PrevLotID: prevLotID}
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("recompute after inventory %s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inventory %s: %w", op, err)
	}

	return nil
}
