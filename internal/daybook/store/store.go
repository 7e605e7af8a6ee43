package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/database"
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
	transaction_id, date, transaction_type, amount, description, lot_id, reference,
	balance_after_transaction, created_at, updated_at
`

func scanEntry(s scanner) (*daybook.Entry, error) {
	var (
		e         daybook.Entry
		typ       string
		desc, ref sql.NullString
		lotID     sql.NullInt64
	)

	if err := s.Scan(
		&e.ID, &e.Date, &typ, &e.Amount, &desc, &lotID, &ref, &e.BalanceAfter, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Type = daybook.Type(typ)
	e.Description = desc.String
	e.Reference = ref.String

	if lotID.Valid {
		e.LotID = &lotID.Int64
	}

	return &e, nil
}

func get(ctx context.Context, q database.Querier, id int64) (*daybook.Entry, error) {
	e, err := scanEntry(q.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM day_book WHERE transaction_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, daybook.ErrNotFound
		}

		return nil, fmt.Errorf("getting day book entry: %w", err)
	}

	return e, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*daybook.Entry, error) {
	return get(ctx, s.db, id)
}

func (s *Store) List(ctx context.Context, filter daybook.ListFilter) ([]*daybook.Entry, error) {
	query := `SELECT ` + selectColumns + ` FROM day_book WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND transaction_type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.LotID != nil {
		query += fmt.Sprintf(" AND lot_id = $%d", argIdx)

		args = append(args, *filter.LotID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (description ILIKE $%[1]d OR reference ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY transaction_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing day book: %w", err)
	}
	defer rows.Close()

	var out []*daybook.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning day book entry: %w", err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (daybook.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning day book tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Queries() recompute.Queries {
	return recomputeStore.New(t.tx)
}

func (t *txStore) Get(ctx context.Context, id int64) (*daybook.Entry, error) {
	return get(ctx, t.tx, id)
}

func (t *txStore) Create(ctx context.Context, e *daybook.Entry) error {
	query := `
		INSERT INTO day_book (date, transaction_type, amount, description, lot_id, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query, e.Date, e.Type, e.Amount, e.Description, e.LotID, e.Reference).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating day book entry: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, e *daybook.Entry) error {
	query := `
		UPDATE day_book
		SET date = $1, transaction_type = $2, amount = $3, description = $4, lot_id = $5, reference = $6,
		    updated_at = NOW()
		WHERE transaction_id = $7
	`

	res, err := t.tx.ExecContext(ctx, query, e.Date, e.Type, e.Amount, e.Description, e.LotID, e.Reference, e.ID)
	if err != nil {
		return fmt.Errorf("updating day book entry: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return daybook.ErrNotFound
	}

	return nil
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM day_book WHERE transaction_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting day book entry: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return daybook.ErrNotFound
	}

	return nil
}
