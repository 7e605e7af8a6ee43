package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/assignment"
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

const selectColumns = `lot_worker_id, lot_id, worker_id, units_produced, hours_worked, rate_per_hour, created_at, updated_at`

func scanAssignment(s scanner) (*assignment.Assignment, error) {
	var a assignment.Assignment

	if err := s.Scan(
		&a.ID, &a.LotID, &a.WorkerID, &a.UnitsProduced, &a.HoursWorked, &a.RatePerHour, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*assignment.Assignment, error) {
	a, err := scanAssignment(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM lot_worker WHERE lot_worker_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, assignment.ErrNotFound
		}

		return nil, fmt.Errorf("getting assignment: %w", err)
	}

	return a, nil
}

func (s *Store) List(ctx context.Context, filter assignment.ListFilter) ([]*assignment.Assignment, error) {
	query := `SELECT ` + selectColumns + ` FROM lot_worker WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.LotID != nil {
		query += fmt.Sprintf(" AND lot_id = $%d", argIdx)

		args = append(args, *filter.LotID)
		argIdx++
	}

	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argIdx)

		args = append(args, *filter.WorkerID)
	}

	query += " ORDER BY lot_worker_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []*assignment.Assignment

	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (assignment.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning assignment tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Queries() recompute.Queries {
	return recomputeStore.New(t.tx)
}

func (t *txStore) Create(ctx context.Context, a *assignment.Assignment) error {
	query := `
		INSERT INTO lot_worker (lot_id, worker_id, units_produced, hours_worked, rate_per_hour)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING lot_worker_id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query, a.LotID, a.WorkerID, a.UnitsProduced, a.HoursWorked, a.RatePerHour).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating assignment: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, a *assignment.Assignment) error {
	query := `
		UPDATE lot_worker
		SET lot_id = $1, worker_id = $2, units_produced = $3, hours_worked = $4, rate_per_hour = $5, updated_at = NOW()
		WHERE lot_worker_id = $6
		RETURNING updated_at
	`

	err := t.tx.QueryRowContext(ctx, query, a.LotID, a.WorkerID, a.UnitsProduced, a.HoursWorked, a.RatePerHour, a.ID).
		Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assignment.ErrNotFound
		}

		return fmt.Errorf("updating assignment: %w", err)
	}

	return nil
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM lot_worker WHERE lot_worker_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.ErrNotFound
	}

	return nil
}
