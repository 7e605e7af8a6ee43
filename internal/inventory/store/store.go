package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/inventory"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
	recomputeStore "github.com/MrJamesThe3rd/shankh/internal/recompute/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	inventory_id, lot_id, material_name, quantity_used, unit_cost, date_used, supplier_name, created_at, updated_at
`

func scanUsage(s scanner) (*inventory.Usage, error) {
	var (
		u        inventory.Usage
		supplier sql.NullString
	)

	if err := s.Scan(
		&u.ID, &u.LotID, &u.MaterialName, &u.QuantityUsed, &u.UnitCost, &u.DateUsed, &supplier, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.SupplierName = supplier.String

	return &u, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*inventory.Usage, error) {
	u, err := scanUsage(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM inventory WHERE inventory_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("getting inventory usage: %w", err)
	}

	return u, nil
}

func (s *Store) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Usage, error) {
	query := `SELECT ` + selectColumns + ` FROM inventory WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.LotID != nil {
		query += fmt.Sprintf(" AND lot_id = $%d", argIdx)

		args = append(args, *filter.LotID)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (material_name ILIKE $%[1]d OR supplier_name ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY date_used ASC, inventory_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inventory usage: %w", err)
	}
	defer rows.Close()

	var out []*inventory.Usage

	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory usage: %w", err)
		}

		out = append(out, u)
	}

	return out, rows.Err()
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning inventory tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Queries() recompute.Queries {
	return recomputeStore.New(t.tx)
}

func (t *txStore) Create(ctx context.Context, u *inventory.Usage) error {
	query := `
		INSERT INTO inventory (lot_id, material_name, quantity_used, unit_cost, date_used, supplier_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING inventory_id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query, u.LotID, u.MaterialName, u.QuantityUsed, u.UnitCost, u.DateUsed, u.SupplierName).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating inventory usage: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, u *inventory.Usage) error {
	query := `
		UPDATE inventory
		SET lot_id = $1, material_name = $2, quantity_used = $3, unit_cost = $4, date_used = $5, supplier_name = $6,
		    updated_at = NOW()
		WHERE inventory_id = $7
		RETURNING updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		u.LotID, u.MaterialName, u.QuantityUsed, u.UnitCost, u.DateUsed, u.SupplierName, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.ErrNotFound
		}

		return fmt.Errorf("updating inventory usage: %w", err)
	}

	return nil
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM inventory WHERE inventory_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting inventory usage: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.ErrNotFound
	}

	return nil
}
