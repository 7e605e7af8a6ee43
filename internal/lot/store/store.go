package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/database"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
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

// Expected column order: lot_id, order_id, lot_status, start_date, end_date, total_cost, progress_percent,
// current_stage, notes, created_at, updated_at
const selectColumns = `
	l.lot_id, l.order_id, l.lot_status, l.start_date, l.end_date, l.total_cost, l.progress_percent,
	l.current_stage, l.notes, l.created_at, l.updated_at
`

func scanLot(s scanner) (*lot.Lot, error) {
	var (
		l            lot.Lot
		status       string
		start, end   sql.NullTime
		stage, notes sql.NullString
	)

	if err := s.Scan(
		&l.ID, &l.OrderID, &status, &start, &end, &l.TotalCost, &l.ProgressPercent,
		&stage, &notes, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}

	l.Status = lot.Status(status)
	l.CurrentStage = stage.String
	l.Notes = notes.String

	if start.Valid {
		l.StartDate = &start.Time
	}

	if end.Valid {
		l.EndDate = &end.Time
	}

	return &l, nil
}

func get(ctx context.Context, q database.Querier, id int64) (*lot.Lot, error) {
	l, err := scanLot(q.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM lot l WHERE l.lot_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lot.ErrNotFound
		}

		return nil, fmt.Errorf("getting lot: %w", err)
	}

	return l, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*lot.Lot, error) {
	return get(ctx, s.db, id)
}

func (s *Store) List(ctx context.Context, filter lot.ListFilter) ([]*lot.Lot, error) {
	query := `SELECT ` + selectColumns + ` FROM lot l WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.OrderID != nil {
		query += fmt.Sprintf(" AND l.order_id = $%d", argIdx)

		args = append(args, *filter.OrderID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND l.lot_status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (l.current_stage ILIKE $%[1]d OR l.notes ILIKE $%[1]d OR l.lot_status ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY l.lot_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	defer rows.Close()

	var lots []*lot.Lot

	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lot: %w", err)
		}

		lots = append(lots, l)
	}

	return lots, rows.Err()
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (lot.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning lot tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Queries() recompute.Queries {
	return recomputeStore.New(t.tx)
}

func (t *txStore) Get(ctx context.Context, id int64) (*lot.Lot, error) {
	return get(ctx, t.tx, id)
}

func (t *txStore) Create(ctx context.Context, l *lot.Lot) error {
	query := `
		INSERT INTO lot (order_id, lot_status, start_date, end_date, current_stage, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING lot_id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		l.OrderID,
		l.Status,
		l.StartDate,
		l.EndDate,
		l.CurrentStage,
		l.Notes,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating lot: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, l *lot.Lot) error {
	query := `
		UPDATE lot
		SET order_id = $1, lot_status = $2, start_date = $3, end_date = $4, current_stage = $5, notes = $6,
		    updated_at = NOW()
		WHERE lot_id = $7
	`

	res, err := t.tx.ExecContext(ctx, query,
		l.OrderID,
		l.Status,
		l.StartDate,
		l.EndDate,
		l.CurrentStage,
		l.Notes,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating lot: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return lot.ErrNotFound
	}

	return nil
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM lot WHERE lot_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting lot: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return lot.ErrNotFound
	}

	return nil
}
