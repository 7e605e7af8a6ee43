package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/expense"
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

const selectColumns = `expense_id, lot_id, expense_type, amount, expense_date, vendor, notes, created_at, updated_at`

func scanExpense(s scanner) (*expense.Expense, error) {
	var (
		e             expense.Expense
		vendor, notes sql.NullString
	)

	if err := s.Scan(
		&e.ID, &e.LotID, &e.ExpenseType, &e.Amount, &e.ExpenseDate, &vendor, &notes, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Vendor = vendor.String
	e.Notes = notes.String

	return &e, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*expense.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM lot_expenses WHERE expense_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM lot_expenses WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.LotID != nil {
		query += fmt.Sprintf(" AND lot_id = $%d", argIdx)

		args = append(args, *filter.LotID)
		argIdx++
	}

	if filter.ExpenseType != "" {
		query += fmt.Sprintf(" AND expense_type = $%d", argIdx)

		args = append(args, filter.ExpenseType)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (expense_type ILIKE $%[1]d OR vendor ILIKE $%[1]d OR notes ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY expense_date ASC, expense_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var out []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (expense.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning expense tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Queries() recompute.Queries {
	return recomputeStore.New(t.tx)
}

func (t *txStore) Create(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO lot_expenses (lot_id, expense_type, amount, expense_date, vendor, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING expense_id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query, e.LotID, e.ExpenseType, e.Amount, e.ExpenseDate, e.Vendor, e.Notes).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE lot_expenses
		SET lot_id = $1, expense_type = $2, amount = $3, expense_date = $4, vendor = $5, notes = $6, updated_at = NOW()
		WHERE expense_id = $7
		RETURNING updated_at
	`

	err := t.tx.QueryRowContext(ctx, query, e.LotID, e.ExpenseType, e.Amount, e.ExpenseDate, e.Vendor, e.Notes, e.ID).
		Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrNotFound
		}

		return fmt.Errorf("updating expense: %w", err)
	}

	return nil
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM lot_expenses WHERE expense_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return expense.ErrNotFound
	}

	return nil
}
