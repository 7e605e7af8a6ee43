package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/database"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

// Store implements recompute.Queries on top of an open *sql.Tx (or *sql.DB in tests and tooling).
type Store struct {
	q database.Querier
}

func New(q database.Querier) *Store {
	return &Store{q: q}
}

var _ recompute.Queries = (*Store)(nil)

func (s *Store) InventoryLines(ctx context.Context, lotID int64) ([]recompute.InventoryLine, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT quantity_used, unit_cost FROM inventory WHERE lot_id = $1 ORDER BY inventory_id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory lines: %w", err)
	}
	defer rows.Close()

	var lines []recompute.InventoryLine

	for rows.Next() {
		var l recompute.InventoryLine
		if err := rows.Scan(&l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scanning inventory line: %w", err)
		}

		lines = append(lines, l)
	}

	return lines, rows.Err()
}

func (s *Store) LaborLines(ctx context.Context, lotID int64) ([]recompute.LaborLine, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT hours_worked, rate_per_hour, units_produced FROM lot_worker WHERE lot_id = $1 ORDER BY lot_worker_id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("querying labor lines: %w", err)
	}
	defer rows.Close()

	var lines []recompute.LaborLine

	for rows.Next() {
		var (
			l     recompute.LaborLine
			units sql.NullInt64
		)

		if err := rows.Scan(&l.Hours, &l.Rate, &units); err != nil {
			return nil, fmt.Errorf("scanning labor line: %w", err)
		}

		l.Units = int(units.Int64)
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

func (s *Store) ExpenseAmounts(ctx context.Context, lotID int64) ([]decimal.NullDecimal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT amount FROM lot_expenses WHERE lot_id = $1 ORDER BY expense_id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var amounts []decimal.NullDecimal

	for rows.Next() {
		var a decimal.NullDecimal
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		amounts = append(amounts, a)
	}

	return amounts, rows.Err()
}

func (s *Store) SetLotTotalCost(ctx context.Context, lotID int64, cost decimal.Decimal) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE lot SET total_cost = $1, updated_at = NOW() WHERE lot_id = $2`, cost, lotID)
	if err != nil {
		return fmt.Errorf("updating lot cost: %w", err)
	}

	return requireRow(res)
}

func (s *Store) OrderUnits(ctx context.Context, lotID int64) (int, error) {
	var units int

	err := s.q.QueryRowContext(ctx, `
		SELECT o.num_units
		FROM lot l
		JOIN client_orders o ON o.order_id = l.order_id
		WHERE l.lot_id = $1`, lotID).Scan(&units)
	if err != nil {
		return 0, notFound(err, "querying order units")
	}

	return units, nil
}

func (s *Store) SetLotProgress(ctx context.Context, lotID int64, percent int) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE lot SET progress_percent = $1, updated_at = NOW() WHERE lot_id = $2`, percent, lotID)
	if err != nil {
		return fmt.Errorf("updating lot progress: %w", err)
	}

	return requireRow(res)
}

func (s *Store) Payment(ctx context.Context, paymentID int64) (*recompute.PaymentState, error) {
	var (
		p      recompute.PaymentState
		status sql.NullString
		bal    decimal.NullDecimal
	)

	err := s.q.QueryRowContext(ctx, `
		SELECT payment_id, lot_id, amount_paid, total_due, balance_remaining, payment_status
		FROM client_ledger
		WHERE payment_id = $1`, paymentID).Scan(&p.ID, &p.LotID, &p.AmountPaid, &p.TotalDue, &bal, &status)
	if err != nil {
		return nil, notFound(err, "querying payment")
	}

	p.BalanceRemaining = bal.Decimal
	p.Status = recompute.PaymentStatus(status.String)

	return &p, nil
}

func (s *Store) LotTotalCost(ctx context.Context, lotID int64) (decimal.NullDecimal, error) {
	var cost decimal.NullDecimal

	err := s.q.QueryRowContext(ctx, `SELECT total_cost FROM lot WHERE lot_id = $1`, lotID).Scan(&cost)
	if err != nil {
		return decimal.NullDecimal{}, notFound(err, "querying lot cost")
	}

	return cost, nil
}

func (s *Store) PaymentAmounts(ctx context.Context, lotID int64) ([]decimal.Decimal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT amount_paid FROM client_ledger WHERE lot_id = $1 ORDER BY payment_id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("querying payment amounts: %w", err)
	}
	defer rows.Close()

	var amounts []decimal.Decimal

	for rows.Next() {
		var a decimal.NullDecimal
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scanning payment amount: %w", err)
		}

		amounts = append(amounts, a.Decimal)
	}

	return amounts, rows.Err()
}

func (s *Store) OrderDeadline(ctx context.Context, lotID int64) (time.Time, error) {
	var deadline time.Time

	err := s.q.QueryRowContext(ctx, `
		SELECT o.deadline
		FROM lot l
		JOIN client_orders o ON o.order_id = l.order_id
		WHERE l.lot_id = $1`, lotID).Scan(&deadline)
	if err != nil {
		return time.Time{}, notFound(err, "querying order deadline")
	}

	return deadline, nil
}

func (s *Store) SavePaymentState(ctx context.Context, p *recompute.PaymentState) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE client_ledger
		SET total_due = $1, balance_remaining = $2, payment_status = $3, updated_at = NOW()
		WHERE payment_id = $4`,
		p.TotalDue, p.BalanceRemaining, p.Status, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating payment state: %w", err)
	}

	return nil
}

func (s *Store) CashEntry(ctx context.Context, id int64) (*recompute.CashEntry, error) {
	var (
		e   recompute.CashEntry
		typ string
	)

	err := s.q.QueryRowContext(ctx,
		`SELECT transaction_id, transaction_type, amount FROM day_book WHERE transaction_id = $1`, id,
	).Scan(&e.ID, &typ, &e.Amount)
	if err != nil {
		return nil, notFound(err, "querying day book entry")
	}

	e.Type = recompute.CashType(typ)

	return &e, nil
}

func (s *Store) CashTotalsBefore(ctx context.Context, id int64) (decimal.Decimal, decimal.Decimal, error) {
	var credits, debits decimal.Decimal

	err := s.q.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Credit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type <> 'Credit'), 0)
		FROM day_book
		WHERE transaction_id < $1`, id).Scan(&credits, &debits)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summing prior day book entries: %w", err)
	}

	return credits, debits, nil
}

func (s *Store) CashEntriesFrom(ctx context.Context, id int64) ([]recompute.CashEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT transaction_id, transaction_type, amount
		FROM day_book
		WHERE transaction_id >= $1
		ORDER BY transaction_id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying day book entries: %w", err)
	}
	defer rows.Close()

	var entries []recompute.CashEntry

	for rows.Next() {
		var (
			e   recompute.CashEntry
			typ string
		)

		if err := rows.Scan(&e.ID, &typ, &e.Amount); err != nil {
			return nil, fmt.Errorf("scanning day book entry: %w", err)
		}

		e.Type = recompute.CashType(typ)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Store) SetBalanceAfter(ctx context.Context, id int64, balance decimal.Decimal) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE day_book SET balance_after_transaction = $1, updated_at = NOW() WHERE transaction_id = $2`, balance, id)
	if err != nil {
		return fmt.Errorf("updating day book balance: %w", err)
	}

	return nil
}

func (s *Store) WorkerRate(ctx context.Context, workerID int64) (decimal.Decimal, error) {
	var rate decimal.Decimal

	err := s.q.QueryRowContext(ctx, `SELECT rate_per_hour FROM worker WHERE worker_id = $1`, workerID).Scan(&rate)
	if err != nil {
		return decimal.Zero, notFound(err, "querying worker rate")
	}

	return rate, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return recompute.ErrNotFound
	}

	return fmt.Errorf("%s: %w", op, err)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return recompute.ErrNotFound
	}

	return nil
}
