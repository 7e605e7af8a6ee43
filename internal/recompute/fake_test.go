package recompute_test

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

type fakeLot struct {
	orderID   int64
	totalCost decimal.NullDecimal
	progress  int
}

type fakeAssignment struct {
	lotID int64
	line  recompute.LaborLine
}

type fakeInventory struct {
	lotID int64
	line  recompute.InventoryLine
}

type fakeExpense struct {
	lotID  int64
	amount decimal.NullDecimal
}

type fakeOrder struct {
	units    int
	deadline time.Time
}

// memQueries is an in-memory recompute.Queries keyed by row id.
type memQueries struct {
	lots        map[int64]*fakeLot
	orders      map[int64]*fakeOrder
	inventory   map[int64]fakeInventory
	assignments map[int64]fakeAssignment
	expenses    map[int64]fakeExpense
	payments    map[int64]*recompute.PaymentState
	cash        map[int64]*recompute.CashEntry
	balances    map[int64]decimal.Decimal
	workers     map[int64]decimal.Decimal

	failWith error
}

func newMemQueries() *memQueries {
	return &memQueries{
		lots:        map[int64]*fakeLot{},
		orders:      map[int64]*fakeOrder{},
		inventory:   map[int64]fakeInventory{},
		assignments: map[int64]fakeAssignment{},
		expenses:    map[int64]fakeExpense{},
		payments:    map[int64]*recompute.PaymentState{},
		cash:        map[int64]*recompute.CashEntry{},
		balances:    map[int64]decimal.Decimal{},
		workers:     map[int64]decimal.Decimal{},
	}
}

func (m *memQueries) InventoryLines(_ context.Context, lotID int64) ([]recompute.InventoryLine, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []recompute.InventoryLine

	for _, id := range sortedKeys(m.inventory) {
		if m.inventory[id].lotID == lotID {
			out = append(out, m.inventory[id].line)
		}
	}

	return out, nil
}

func (m *memQueries) LaborLines(_ context.Context, lotID int64) ([]recompute.LaborLine, error) {
	var out []recompute.LaborLine

	for _, id := range sortedKeys(m.assignments) {
		if m.assignments[id].lotID == lotID {
			out = append(out, m.assignments[id].line)
		}
	}

	return out, nil
}

func (m *memQueries) ExpenseAmounts(_ context.Context, lotID int64) ([]decimal.NullDecimal, error) {
	var out []decimal.NullDecimal

	for _, id := range sortedKeys(m.expenses) {
		if m.expenses[id].lotID == lotID {
			out = append(out, m.expenses[id].amount)
		}
	}

	return out, nil
}

func (m *memQueries) SetLotTotalCost(_ context.Context, lotID int64, cost decimal.Decimal) error {
	lot, ok := m.lots[lotID]
	if !ok {
		return recompute.ErrNotFound
	}

	lot.totalCost = decimal.NewNullDecimal(cost)

	return nil
}

func (m *memQueries) OrderUnits(_ context.Context, lotID int64) (int, error) {
	lot, ok := m.lots[lotID]
	if !ok {
		return 0, recompute.ErrNotFound
	}

	order, ok := m.orders[lot.orderID]
	if !ok {
		return 0, recompute.ErrNotFound
	}

	return order.units, nil
}

func (m *memQueries) SetLotProgress(_ context.Context, lotID int64, percent int) error {
	lot, ok := m.lots[lotID]
	if !ok {
		return recompute.ErrNotFound
	}

	lot.progress = percent

	return nil
}

func (m *memQueries) Payment(_ context.Context, id int64) (*recompute.PaymentState, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, recompute.ErrNotFound
	}

	cp := *p

	return &cp, nil
}

func (m *memQueries) LotTotalCost(_ context.Context, lotID int64) (decimal.NullDecimal, error) {
	lot, ok := m.lots[lotID]
	if !ok {
		return decimal.NullDecimal{}, recompute.ErrNotFound
	}

	return lot.totalCost, nil
}

func (m *memQueries) PaymentAmounts(_ context.Context, lotID int64) ([]decimal.Decimal, error) {
	var out []decimal.Decimal

	for _, id := range sortedKeys(m.payments) {
		if m.payments[id].LotID == lotID {
			out = append(out, m.payments[id].AmountPaid)
		}
	}

	return out, nil
}

func (m *memQueries) OrderDeadline(_ context.Context, lotID int64) (time.Time, error) {
	lot, ok := m.lots[lotID]
	if !ok {
		return time.Time{}, recompute.ErrNotFound
	}

	order, ok := m.orders[lot.orderID]
	if !ok {
		return time.Time{}, recompute.ErrNotFound
	}

	return order.deadline, nil
}

func (m *memQueries) SavePaymentState(_ context.Context, p *recompute.PaymentState) error {
	cp := *p
	m.payments[p.ID] = &cp

	return nil
}

func (m *memQueries) CashEntry(_ context.Context, id int64) (*recompute.CashEntry, error) {
	e, ok := m.cash[id]
	if !ok {
		return nil, recompute.ErrNotFound
	}

	return e, nil
}

func (m *memQueries) CashTotalsBefore(_ context.Context, id int64) (decimal.Decimal, decimal.Decimal, error) {
	credits, debits := decimal.Zero, decimal.Zero

	for eid, e := range m.cash {
		if eid >= id {
			continue
		}

		if e.Type == recompute.CashCredit {
			credits = credits.Add(e.Amount)
		} else {
			debits = debits.Add(e.Amount)
		}
	}

	return credits, debits, nil
}

func (m *memQueries) CashEntriesFrom(_ context.Context, id int64) ([]recompute.CashEntry, error) {
	var out []recompute.CashEntry

	for _, eid := range sortedKeys(m.cash) {
		if eid >= id {
			out = append(out, *m.cash[eid])
		}
	}

	return out, nil
}

func (m *memQueries) SetBalanceAfter(_ context.Context, id int64, balance decimal.Decimal) error {
	m.balances[id] = balance
	return nil
}

func (m *memQueries) WorkerRate(_ context.Context, workerID int64) (decimal.Decimal, error) {
	rate, ok := m.workers[workerID]
	if !ok {
		return decimal.Zero, recompute.ErrNotFound
	}

	return rate, nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

type rateHolder struct {
	rate decimal.Decimal
}

func (r *rateHolder) SetRatePerHour(rate decimal.Decimal) { r.rate = rate }
