package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ report.Repository = (*Store)(nil)

// clientLots joins a cost table aliased x to the lots of client $1.
const clientLots = `
	JOIN lot l ON l.lot_id = x.lot_id
	JOIN client_orders o ON o.order_id = l.order_id
	WHERE o.client_id = $1`

func (s *Store) exists(ctx context.Context, query string, id int64) error {
	var ok bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&ok); err != nil {
		return fmt.Errorf("checking existence: %w", err)
	}

	if !ok {
		return report.ErrNotFound
	}

	return nil
}

func (s *Store) sum(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	var d decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&d); err != nil {
		return decimal.Zero, err
	}

	return d, nil
}

func (s *Store) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (s *Store) LotExists(ctx context.Context, lotID int64) error {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM lot WHERE lot_id = $1)`, lotID)
}

func (s *Store) LotLabor(ctx context.Context, lotID int64) (report.Labor, error) {
	var l report.Labor

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(units_produced), 0),
		       COALESCE(SUM(hours_worked), 0),
		       COALESCE(SUM(hours_worked * COALESCE(rate_per_hour, 0)), 0)
		FROM lot_worker WHERE lot_id = $1
	`, lotID).Scan(&l.UnitsProduced, &l.HoursWorked, &l.Cost)
	if err != nil {
		return report.Labor{}, err
	}

	return l, nil
}

func (s *Store) LotMaterialCost(ctx context.Context, lotID int64) (decimal.Decimal, error) {
	return s.sum(ctx, `SELECT COALESCE(SUM(quantity_used * unit_cost), 0) FROM inventory WHERE lot_id = $1`, lotID)
}

func (s *Store) LotExpenseTotal(ctx context.Context, lotID int64) (decimal.Decimal, error) {
	return s.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM lot_expenses WHERE lot_id = $1`, lotID)
}

func (s *Store) LotPaymentTotal(ctx context.Context, lotID int64) (decimal.Decimal, error) {
	return s.sum(ctx, `SELECT COALESCE(SUM(amount_paid), 0) FROM client_ledger WHERE lot_id = $1`, lotID)
}

func (s *Store) LotCashTotals(ctx context.Context, lotID int64) (report.CashTotals, error) {
	var t report.CashTotals

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Debit'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Credit'), 0)
		FROM day_book WHERE lot_id = $1
	`, lotID).Scan(&t.Debit, &t.Credit)
	if err != nil {
		return report.CashTotals{}, err
	}

	return t, nil
}

func (s *Store) ClientExists(ctx context.Context, clientID int64) error {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM client WHERE client_id = $1)`, clientID)
}

func (s *Store) ClientPaymentTotal(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	return s.sum(ctx, `SELECT COALESCE(SUM(amount_paid), 0) FROM client_ledger WHERE client_id = $1`, clientID)
}

// ClientLotCost sums labor, materials and expenses over every lot of the client's orders.
func (s *Store) ClientLotCost(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE((SELECT SUM(x.hours_worked * COALESCE(x.rate_per_hour, 0)) FROM lot_worker x %[1]s), 0) +
			COALESCE((SELECT SUM(x.quantity_used * x.unit_cost) FROM inventory x %[1]s), 0) +
			COALESCE((SELECT SUM(x.amount) FROM lot_expenses x %[1]s), 0)
	`, clientLots)

	return s.sum(ctx, query, clientID)
}

func (s *Store) CountClients(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM client`)
}

func (s *Store) CountActiveOrders(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM client_orders WHERE order_status <> 'Completed'`)
}

func (s *Store) CountOngoingLots(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM lot WHERE lot_status IN ('Pending', 'In Progress')`)
}

func (s *Store) Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, `
		SELECT COALESCE(SUM(amount_paid), 0) FROM client_ledger
		WHERE payment_date >= $1 AND payment_date < $2
	`, from, to)
}

func (s *Store) CountOverduePayments(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM client_ledger WHERE payment_status = 'Overdue'`)
}

func (s *Store) AverageUnitsPerAssignment(ctx context.Context) (decimal.Decimal, error) {
	return s.sum(ctx, `SELECT COALESCE(ROUND(AVG(units_produced), 2), 0) FROM lot_worker`)
}

func (s *Store) LotStatusCounts(ctx context.Context) ([]report.StatusCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lot_status, COUNT(*) FROM lot GROUP BY lot_status ORDER BY lot_status`)
	if err != nil {
		return nil, fmt.Errorf("querying lot status counts: %w", err)
	}
	defer rows.Close()

	var counts []report.StatusCount

	for rows.Next() {
		var c report.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning lot status count: %w", err)
		}

		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// WorkerOutputs returns raw average units per assignment as Efficiency; the service clamps it.
func (s *Store) WorkerOutputs(ctx context.Context) ([]report.WorkerOutput, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.worker_id, w.name, COALESCE(SUM(lw.units_produced), 0), COALESCE(AVG(lw.units_produced), 0)
		FROM worker w
		JOIN lot_worker lw ON lw.worker_id = w.worker_id
		GROUP BY w.worker_id, w.name
		ORDER BY w.name, w.worker_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying worker outputs: %w", err)
	}
	defer rows.Close()

	var outputs []report.WorkerOutput

	for rows.Next() {
		var o report.WorkerOutput
		if err := rows.Scan(&o.WorkerID, &o.Name, &o.UnitsProduced, &o.Efficiency); err != nil {
			return nil, fmt.Errorf("scanning worker output: %w", err)
		}

		outputs = append(outputs, o)
	}

	return outputs, rows.Err()
}

func (s *Store) MaterialUsage(ctx context.Context) ([]report.MaterialUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT material_name, COALESCE(SUM(quantity_used), 0), COALESCE(SUM(quantity_used * unit_cost), 0)
		FROM inventory
		GROUP BY material_name
		ORDER BY material_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying material usage: %w", err)
	}
	defer rows.Close()

	var usage []report.MaterialUsage

	for rows.Next() {
		var u report.MaterialUsage
		if err := rows.Scan(&u.Material, &u.Used, &u.TotalCost); err != nil {
			return nil, fmt.Errorf("scanning material usage: %w", err)
		}

		usage = append(usage, u)
	}

	return usage, rows.Err()
}


func (s *Store) monthlyCounts(ctx context.Context, query string, from, to time.Time) (map[time.Month]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[time.Month]int64)

	for rows.Next() {
		var (
			month int
			n     int64
		)
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}

		counts[time.Month(month)] = n
	}

	return counts, rows.Err()
}

func (s *Store) monthlySums(ctx context.Context, query string, from, to time.Time) (map[time.Month]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[time.Month]decimal.Decimal)

	for rows.Next() {
		var (
			month int
			d     decimal.Decimal
		)
		if err := rows.Scan(&month, &d); err != nil {
			return nil, err
		}

		sums[time.Month(month)] = d
	}

	return sums, rows.Err()
}

func (s *Store) MonthlyOrderCounts(ctx context.Context, from, to time.Time) (map[time.Month]int64, error) {
	return s.monthlyCounts(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int, COUNT(*) FROM client_orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY 1
	`, from, to)
}

func (s *Store) MonthlyLotCounts(ctx context.Context, from, to time.Time) (map[time.Month]int64, error) {
	return s.monthlyCounts(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int, COUNT(*) FROM lot
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY 1
	`, from, to)
}

func (s *Store) MonthlyRevenue(ctx context.Context, from, to time.Time) (map[time.Month]decimal.Decimal, error) {
	return s.monthlySums(ctx, `
		SELECT EXTRACT(MONTH FROM payment_date)::int, SUM(amount_paid) FROM client_ledger
		WHERE payment_date >= $1 AND payment_date < $2
		GROUP BY 1
	`, from, to)
}

func (s *Store) MonthlyExpenses(ctx context.Context, from, to time.Time) (map[time.Month]decimal.Decimal, error) {
	return s.monthlySums(ctx, `
		SELECT EXTRACT(MONTH FROM expense_date)::int, SUM(amount) FROM lot_expenses
		WHERE expense_date >= $1 AND expense_date < $2
		GROUP BY 1
	`, from, to)
}

func (s *Store) RecentCompletedLots(ctx context.Context, limit int) ([]report.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.lot_id, COALESCE(o.design_description, ''), l.updated_at
		FROM lot l
		JOIN client_orders o ON o.order_id = l.order_id
		WHERE l.lot_status = 'Completed'
		ORDER BY l.updated_at DESC, l.lot_id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent lots: %w", err)
	}
	defer rows.Close()

	var activities []report.Activity

	for rows.Next() {
		var a report.Activity
		if err := rows.Scan(&a.RefID, &a.Subtitle, &a.At); err != nil {
			return nil, fmt.Errorf("scanning recent lot: %w", err)
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func (s *Store) RecentPayments(ctx context.Context, limit int) ([]report.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.payment_id, c.name, p.amount_paid, p.payment_date
		FROM client_ledger p
		JOIN client c ON c.client_id = p.client_id
		ORDER BY p.payment_date DESC, p.payment_id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent payments: %w", err)
	}
	defer rows.Close()

	var activities []report.Activity

	for rows.Next() {
		var a report.Activity
		if err := rows.Scan(&a.RefID, &a.Subtitle, &a.Amount, &a.At); err != nil {
			return nil, fmt.Errorf("scanning recent payment: %w", err)
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}
