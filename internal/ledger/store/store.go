package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/database"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
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
	payment_id, lot_id, client_id, payment_date, amount_paid, payment_method, notes,
	total_due, balance_remaining, payment_status, invoice_number, created_at, updated_at
`

func scanPayment(s scanner) (*ledger.Payment, error) {
	var (
		p                      ledger.Payment
		method, notes, invoice sql.NullString
		status                 string
	)

	if err := s.Scan(
		&p.ID, &p.LotID, &p.ClientID, &p.PaymentDate, &p.AmountPaid, &method, &notes,
		&p.TotalDue, &p.BalanceRemaining, &status, &invoice, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.PaymentMethod = method.String
	p.Notes = notes.String
	p.InvoiceNumber = invoice.String
	p.Status = ledger.Status(status)

	return &p, nil
}

func get(ctx context.Context, q database.Querier, id int64) (*ledger.Payment, error) {
	p, err := scanPayment(q.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM client_ledger WHERE payment_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*ledger.Payment, error) {
	return get(ctx, s.db, id)
}

func (s *Store) List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Payment, error) {
	query := `SELECT ` + selectColumns + ` FROM client_ledger WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.LotID != nil {
		query += fmt.Sprintf(" AND lot_id = $%d", argIdx)

		args = append(args, *filter.LotID)
		argIdx++
	}

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND payment_status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (invoice_number ILIKE $%[1]d OR payment_method ILIKE $%[1]d OR notes ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY payment_date ASC, payment_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		out = append(out, p)
	}

	return out, rows.Err()
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning payment tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Queries() recompute.Queries {
	return recomputeStore.New(t.tx)
}

func (t *txStore) Get(ctx context.Context, id int64) (*ledger.Payment, error) {
	return get(ctx, t.tx, id)
}

func (t *txStore) InvoiceExists(ctx context.Context, invoice string) (bool, error) {
	var exists bool

	err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM client_ledger WHERE invoice_number = $1)`, invoice,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking invoice: %w", err)
	}

	return exists, nil
}

func (t *txStore) Create(ctx context.Context, p *ledger.Payment) error {
	query := `
		INSERT INTO client_ledger (lot_id, client_id, payment_date, amount_paid, payment_method, notes, total_due,
		                           payment_status, invoice_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING payment_id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		p.LotID,
		p.ClientID,
		p.PaymentDate,
		p.AmountPaid,
		p.PaymentMethod,
		p.Notes,
		p.TotalDue,
		p.Status,
		p.InvoiceNumber,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, p *ledger.Payment) error {
	query := `
		UPDATE client_ledger
		SET lot_id = $1, client_id = $2, payment_date = $3, amount_paid = $4, payment_method = $5, notes = $6,
		    total_due = $7, updated_at = NOW()
		WHERE payment_id = $8
	`

	res, err := t.tx.ExecContext(ctx, query,
		p.LotID,
		p.ClientID,
		p.PaymentDate,
		p.AmountPaid,
		p.PaymentMethod,
		p.Notes,
		p.TotalDue,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM client_ledger WHERE payment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
