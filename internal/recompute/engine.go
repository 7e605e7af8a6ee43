package recompute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/metrics"
)

const (
	ruleLotCost     = "lot_cost"
	ruleLotProgress = "lot_progress"
	ruleLedger      = "ledger"
	ruleDaybook     = "daybook_balance"
	ruleRechain     = "daybook_rechain"
	ruleWorkerRate  = "worker_rate"
)

var hundred = decimal.NewFromInt(100)

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the clock used for the overdue check.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone whose calendar decides which day "today" is. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// Engine keeps derived columns consistent with their source rows. It holds no state of its own;
// every rule reads and writes through the Queries it is handed.
type Engine struct {
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	loc     *time.Location
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log: slog.Default(),
		now: time.Now,
		loc: time.UTC,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Apply runs every rule triggered by c.
func (e *Engine) Apply(ctx context.Context, q Queries, c Change) error {
	switch c.Entity {
	case EntityLot:
		if c.Op == OpDelete {
			return nil
		}

		return e.refreshLot(ctx, q, c.ID, true)

	case EntityInventory, EntityExpense:
		return e.forEachLot(c, func(lotID int64) error {
			return e.refreshLot(ctx, q, lotID, false)
		})

	case EntityAssignment:
		return e.forEachLot(c, func(lotID int64) error {
			return e.refreshLot(ctx, q, lotID, true)
		})

	case EntityPayment:
		if c.Op == OpDelete {
			e.log.Debug("payment deleted, sibling balances left as stored", "payment_id", c.ID, "lot_id", c.LotID)
			return nil
		}

		_, err := e.RecomputeLedger(ctx, q, c.ID)

		return err

	case EntityDaybook:
		if c.Op == OpDelete {
			e.log.Debug("day book entry deleted, later balances left as stored", "transaction_id", c.ID)
			return nil
		}

		_, err := e.RecomputeDaybookBalance(ctx, q, c.ID)

		return err
	}

	return fmt.Errorf("unknown entity %q", c.Entity)
}

func (e *Engine) forEachLot(c Change, fn func(lotID int64) error) error {
	if c.LotID != 0 {
		if err := fn(c.LotID); err != nil {
			return err
		}
	}

	if c.PrevLotID != 0 && c.PrevLotID != c.LotID {
		return fn(c.PrevLotID)
	}

	return nil
}

func (e *Engine) refreshLot(ctx context.Context, q Queries, lotID int64, progress bool) error {
	if _, err := e.RecomputeLotCost(ctx, q, lotID); err != nil {
		return err
	}

	if !progress {
		return nil
	}

	_, err := e.RecomputeLotProgress(ctx, q, lotID)

	return err
}

// RecomputeLotCost sums inventory, labor and expense line items of the lot and stores the result as total_cost.
// Null operands count as zero. A missing lot yields zero and writes nothing.
func (e *Engine) RecomputeLotCost(ctx context.Context, q Queries, lotID int64) (cost decimal.Decimal, err error) {
	defer e.observe(ruleLotCost, time.Now(), &err)

	inventory, err := q.InventoryLines(ctx, lotID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading inventory lines: %w", err)
	}

	labor, err := q.LaborLines(ctx, lotID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading labor lines: %w", err)
	}

	expenses, err := q.ExpenseAmounts(ctx, lotID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading expenses: %w", err)
	}

	cost = LotCost(inventory, labor, expenses)

	if err := q.SetLotTotalCost(ctx, lotID, cost); err != nil {
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("lot not found, skipping cost update", "lot_id", lotID)
			return decimal.Zero, err
		}

		return decimal.Zero, fmt.Errorf("storing lot cost: %w", err)
	}

	e.log.Debug("recomputed lot cost", "lot_id", lotID, "total_cost", cost.StringFixed(2))

	return cost, nil
}

// LotCost is sum(qty*unit_cost) + sum(hours*rate) + sum(amount).
func LotCost(inventory []InventoryLine, labor []LaborLine, expenses []decimal.NullDecimal) decimal.Decimal {
	total := decimal.Zero

	for _, l := range inventory {
		total = total.Add(orZero(l.Quantity).Mul(orZero(l.UnitCost)))
	}

	for _, l := range labor {
		total = total.Add(orZero(l.Hours).Mul(orZero(l.Rate)))
	}

	for _, a := range expenses {
		total = total.Add(orZero(a))
	}

	return total
}

// RecomputeLotProgress stores round(100*produced/num_units) clamped to [0,100] as progress_percent.
func (e *Engine) RecomputeLotProgress(ctx context.Context, q Queries, lotID int64) (percent int, err error) {
	defer e.observe(ruleLotProgress, time.Now(), &err)

	units, err := q.OrderUnits(ctx, lotID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("loading order units: %w", err)
	}

	labor, err := q.LaborLines(ctx, lotID)
	if err != nil {
		return 0, fmt.Errorf("loading labor lines: %w", err)
	}

	produced := 0
	for _, l := range labor {
		produced += l.Units
	}

	percent = Progress(produced, units)

	if err := q.SetLotProgress(ctx, lotID, percent); err != nil {
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("lot not found, skipping progress update", "lot_id", lotID)
			return 0, err
		}

		return 0, fmt.Errorf("storing lot progress: %w", err)
	}

	e.log.Debug("recomputed lot progress", "lot_id", lotID, "progress_percent", percent)

	return percent, nil
}

// Progress rounds half away from zero and clamps to [0,100]. Zero or negative order units give 0.
func Progress(produced, orderUnits int) int {
	if orderUnits <= 0 {
		return 0
	}

	pct := decimal.NewFromInt(int64(produced)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(orderUnits))).
		Round(0).
		IntPart()

	return int(min(max(pct, 0), 100))
}

// RecomputeLedger fills total_due from the lot cost when unset, then derives balance_remaining and payment_status
// from every payment on the same lot. A missing payment returns (nil, nil).
func (e *Engine) RecomputeLedger(ctx context.Context, q Queries, paymentID int64) (p *PaymentState, err error) {
	defer e.observe(ruleLedger, time.Now(), &err)

	p, err = q.Payment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("payment not found, skipping reconcile", "payment_id", paymentID)
			return nil, err
		}

		return nil, fmt.Errorf("loading payment: %w", err)
	}

	if !p.TotalDue.Valid || p.TotalDue.Decimal.IsZero() {
		cost, err := q.LotTotalCost(ctx, p.LotID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("loading lot cost: %w", err)
		}

		p.TotalDue = decimal.NewNullDecimal(orZero(cost))
	}

	amounts, err := q.PaymentAmounts(ctx, p.LotID)
	if err != nil {
		return nil, fmt.Errorf("loading lot payments: %w", err)
	}

	var deadline *time.Time

	d, err := q.OrderDeadline(ctx, p.LotID)
	switch {
	case err == nil:
		deadline = &d
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("loading order deadline: %w", err)
	}

	p.BalanceRemaining, p.Status = Reconcile(p.TotalDue.Decimal, amounts, deadline, e.now().In(e.loc))

	if err := q.SavePaymentState(ctx, p); err != nil {
		return nil, fmt.Errorf("storing payment state: %w", err)
	}

	e.log.Debug("reconciled payment",
		"payment_id", p.ID,
		"lot_id", p.LotID,
		"balance_remaining", p.BalanceRemaining.StringFixed(2),
		"status", p.Status,
	)

	return p, nil
}

// Reconcile derives the remaining balance and status. Precedence is Paid, Overdue, Partial, Pending.
// The deadline is overdue when its calendar date is strictly before now's calendar date in now's location.
func Reconcile(totalDue decimal.Decimal, amounts []decimal.Decimal, deadline *time.Time, now time.Time) (decimal.Decimal, PaymentStatus) {
	paid := decimal.Zero
	anyPositive := false

	for _, a := range amounts {
		paid = paid.Add(a)

		if a.IsPositive() {
			anyPositive = true
		}
	}

	balance := totalDue.Sub(paid)

	switch {
	case !balance.IsPositive():
		return balance, PaymentPaid
	case deadline != nil && dateOf(*deadline).Before(dateOf(now)):
		return balance, PaymentOverdue
	case anyPositive:
		return balance, PaymentPartial
	default:
		return balance, PaymentPending
	}
}

// RecomputeDaybookBalance stores the signed total of every entry with a smaller id plus the entry's own signed amount.
func (e *Engine) RecomputeDaybookBalance(ctx context.Context, q Queries, id int64) (balance decimal.Decimal, err error) {
	defer e.observe(ruleDaybook, time.Now(), &err)

	entry, err := q.CashEntry(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("day book entry not found, skipping balance", "transaction_id", id)
			return decimal.Zero, err
		}

		return decimal.Zero, fmt.Errorf("loading day book entry: %w", err)
	}

	credits, debits, err := q.CashTotalsBefore(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading prior totals: %w", err)
	}

	balance = credits.Sub(debits).Add(entry.Type.Signed(entry.Amount))

	if err := q.SetBalanceAfter(ctx, id, balance); err != nil {
		return decimal.Zero, fmt.Errorf("storing balance: %w", err)
	}

	e.log.Debug("recomputed day book balance", "transaction_id", id, "balance", balance.StringFixed(2))

	return balance, nil
}

// RechainDaybook rewrites balance_after_transaction for every entry with id >= fromID, in id order,
// and returns how many rows were rewritten.
func (e *Engine) RechainDaybook(ctx context.Context, q Queries, fromID int64) (n int, err error) {
	defer e.observe(ruleRechain, time.Now(), &err)

	credits, debits, err := q.CashTotalsBefore(ctx, fromID)
	if err != nil {
		return 0, fmt.Errorf("loading prior totals: %w", err)
	}

	entries, err := q.CashEntriesFrom(ctx, fromID)
	if err != nil {
		return 0, fmt.Errorf("loading day book entries: %w", err)
	}

	running := credits.Sub(debits)

	for _, entry := range entries {
		running = running.Add(entry.Type.Signed(entry.Amount))

		if err := q.SetBalanceAfter(ctx, entry.ID, running); err != nil {
			return n, fmt.Errorf("storing balance for %d: %w", entry.ID, err)
		}

		n++
	}

	e.log.Info("rechained day book", "from_id", fromID, "rows", n, "closing_balance", running.StringFixed(2))

	return n, nil
}

// ApplyWorkerRate copies the worker's current rate onto a. It reports false, leaving a untouched,
// when the worker does not exist.
func (e *Engine) ApplyWorkerRate(ctx context.Context, q Queries, workerID int64, a RateAssignable) (ok bool, err error) {
	defer e.observe(ruleWorkerRate, time.Now(), &err)

	rate, err := q.WorkerRate(ctx, workerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.log.Warn("worker not found, keeping assignment rate", "worker_id", workerID)
			return false, err
		}

		return false, fmt.Errorf("loading worker rate: %w", err)
	}

	a.SetRatePerHour(rate)

	return true, nil
}

// observe records the rule run and folds ErrNotFound into a nil error so callers never fail on it.
func (e *Engine) observe(rule string, start time.Time, err *error) {
	outcome := "ok"

	switch {
	case *err == nil:
	case errors.Is(*err, ErrNotFound):
		outcome = "not_found"
		*err = nil
	default:
		outcome = "error"
	}

	e.metrics.ObserveRecompute(rule, outcome, time.Since(start))
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}

	return d.Decimal
}

// dateOf is t's calendar date in t's own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
