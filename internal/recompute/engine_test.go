package recompute_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

var today = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func newEngine() *recompute.Engine {
	return recompute.NewEngine(recompute.WithClock(func() time.Time { return today }))
}

func seededLot(q *memQueries, units int, deadline time.Time) {
	q.orders[1] = &fakeOrder{units: units, deadline: deadline}
	q.lots[10] = &fakeLot{orderID: 1}
}

func TestEngine_RecomputeLotCost(t *testing.T) {
	ctx := context.Background()
	q := newMemQueries()
	seededLot(q, 100, today.AddDate(0, 1, 0))

	q.inventory[1] = fakeInventory{lotID: 10, line: recompute.InventoryLine{Quantity: nullDec("10"), UnitCost: nullDec("5")}}
	q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Hours: nullDec("4"), Rate: nullDec("50")}}
	q.expenses[1] = fakeExpense{lotID: 10, amount: nullDec("20")}

	// rows of another lot never leak in
	q.expenses[2] = fakeExpense{lotID: 11, amount: nullDec("999")}

	cost, err := newEngine().RecomputeLotCost(ctx, q, 10)
	require.NoError(t, err)

	assert.True(t, cost.Equal(dec("270")), "got %s", cost)
	assert.True(t, q.lots[10].totalCost.Decimal.Equal(dec("270")))
}

func TestEngine_RecomputeLotCost_NullOperands(t *testing.T) {
	q := newMemQueries()
	seededLot(q, 10, today)

	q.inventory[1] = fakeInventory{lotID: 10, line: recompute.InventoryLine{Quantity: nullDec("3")}}
	q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Hours: nullDec("2")}}
	q.expenses[1] = fakeExpense{lotID: 10}
	q.expenses[2] = fakeExpense{lotID: 10, amount: nullDec("12.50")}

	cost, err := newEngine().RecomputeLotCost(context.Background(), q, 10)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("12.5")))
}

func TestEngine_RecomputeLotCost_KeepsFullPrecision(t *testing.T) {
	q := newMemQueries()
	seededLot(q, 10, today)

	q.inventory[1] = fakeInventory{lotID: 10, line: recompute.InventoryLine{Quantity: nullDec("2.35"), UnitCost: nullDec("1.05")}}
	q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Hours: nullDec("0.33"), Rate: nullDec("0.33")}}

	cost, err := newEngine().RecomputeLotCost(context.Background(), q, 10)
	require.NoError(t, err)

	assert.Equal(t, "2.5764", cost.String())
	assert.Equal(t, "2.5764", q.lots[10].totalCost.Decimal.String())
}

func TestEngine_RecomputeLotCost_RoundTrip(t *testing.T) {
	ctx := context.Background()
	q := newMemQueries()
	seededLot(q, 10, today)
	engine := newEngine()

	q.inventory[1] = fakeInventory{lotID: 10, line: recompute.InventoryLine{Quantity: nullDec("1.25"), UnitCost: nullDec("8.40")}}

	before, err := engine.RecomputeLotCost(ctx, q, 10)
	require.NoError(t, err)

	q.expenses[7] = fakeExpense{lotID: 10, amount: nullDec("33.33")}
	require.NoError(t, engine.Apply(ctx, q, recompute.Change{Entity: recompute.EntityExpense, Op: recompute.OpCreate, ID: 7, LotID: 10}))
	assert.True(t, q.lots[10].totalCost.Decimal.Equal(before.Add(dec("33.33"))))

	delete(q.expenses, 7)
	require.NoError(t, engine.Apply(ctx, q, recompute.Change{Entity: recompute.EntityExpense, Op: recompute.OpDelete, ID: 7, LotID: 10}))
	assert.True(t, q.lots[10].totalCost.Decimal.Equal(before))
}

func TestEngine_RecomputeLotCost_MissingLot(t *testing.T) {
	q := newMemQueries()

	cost, err := newEngine().RecomputeLotCost(context.Background(), q, 404)
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestEngine_RecomputeLotCost_StoreFailure(t *testing.T) {
	q := newMemQueries()
	seededLot(q, 10, today)
	q.failWith = errors.New("connection reset")

	_, err := newEngine().RecomputeLotCost(context.Background(), q, 10)
	assert.ErrorContains(t, err, "connection reset")
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		produced int
		units    int
		want     int
	}{
		{name: "Half", produced: 50, units: 100, want: 50},
		{name: "RoundsUp", produced: 1, units: 8, want: 13},
		{name: "RoundsDown", produced: 1, units: 3, want: 33},
		{name: "HalfAwayFromZero", produced: 1, units: 200, want: 1},
		{name: "Clamped", produced: 250, units: 100, want: 100},
		{name: "ZeroUnits", produced: 25, units: 0, want: 0},
		{name: "NothingProduced", produced: 0, units: 40, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recompute.Progress(tt.produced, tt.units))
		})
	}
}

func TestEngine_RecomputeLotProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("SumsAssignments", func(t *testing.T) {
		q := newMemQueries()
		seededLot(q, 40, today)
		q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Units: 10}}
		q.assignments[2] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Units: 5}}

		pct, err := newEngine().RecomputeLotProgress(ctx, q, 10)
		require.NoError(t, err)
		assert.Equal(t, 38, pct)
		assert.Equal(t, 38, q.lots[10].progress)
	})

	t.Run("ZeroUnitsOrder", func(t *testing.T) {
		q := newMemQueries()
		seededLot(q, 0, today)
		q.lots[10].progress = 70
		q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Units: 500}}

		pct, err := newEngine().RecomputeLotProgress(ctx, q, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, pct)
		assert.Equal(t, 0, q.lots[10].progress)
	})

	t.Run("LotWithoutOrder", func(t *testing.T) {
		q := newMemQueries()
		q.lots[10] = &fakeLot{orderID: 99}
		q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Units: 5}}

		pct, err := newEngine().RecomputeLotProgress(ctx, q, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, pct)
	})

	t.Run("OverProduction", func(t *testing.T) {
		q := newMemQueries()
		seededLot(q, 10, today)
		q.assignments[1] = fakeAssignment{lotID: 10, line: recompute.LaborLine{Units: 31}}

		pct, err := newEngine().RecomputeLotProgress(ctx, q, 10)
		require.NoError(t, err)
		assert.Equal(t, 100, pct)
	})
}

func TestEngine_RecomputeLedger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		deadline    time.Time
		lotCost     string
		totalDue    decimal.NullDecimal
		payments    map[int64]string
		wantDue     string
		wantBalance string
		wantStatus  recompute.PaymentStatus
	}{
		{
			name:        "PaidInFull",
			deadline:    today.AddDate(0, 0, 10),
			lotCost:     "500",
			payments:    map[int64]string{1: "200", 2: "300"},
			wantDue:     "500",
			wantBalance: "0",
			wantStatus:  recompute.PaymentPaid,
		},
		{
			name:        "OverpaidIsPaid",
			deadline:    today.AddDate(0, 0, -10),
			lotCost:     "500",
			payments:    map[int64]string{1: "600"},
			wantDue:     "500",
			wantBalance: "-100",
			wantStatus:  recompute.PaymentPaid,
		},
		{
			name:        "OverdueBeatsPartial",
			deadline:    today.AddDate(0, 0, -1),
			lotCost:     "500",
			payments:    map[int64]string{1: "100"},
			wantDue:     "500",
			wantBalance: "400",
			wantStatus:  recompute.PaymentOverdue,
		},
		{
			name:        "DeadlineTodayIsNotOverdue",
			deadline:    time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			lotCost:     "500",
			payments:    map[int64]string{1: "100"},
			wantDue:     "500",
			wantBalance: "400",
			wantStatus:  recompute.PaymentPartial,
		},
		{
			name:        "Pending",
			deadline:    today.AddDate(0, 1, 0),
			lotCost:     "500",
			payments:    map[int64]string{1: "0"},
			wantDue:     "500",
			wantBalance: "500",
			wantStatus:  recompute.PaymentPending,
		},
		{
			name:        "ExistingDueIsKept",
			deadline:    today.AddDate(0, 1, 0),
			lotCost:     "900",
			totalDue:    nullDec("400"),
			payments:    map[int64]string{1: "150"},
			wantDue:     "400",
			wantBalance: "250",
			wantStatus:  recompute.PaymentPartial,
		},
		{
			name:        "ZeroDueIsRefilled",
			deadline:    today.AddDate(0, 1, 0),
			lotCost:     "300",
			totalDue:    nullDec("0"),
			payments:    map[int64]string{1: "100"},
			wantDue:     "300",
			wantBalance: "200",
			wantStatus:  recompute.PaymentPartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newMemQueries()
			seededLot(q, 10, tt.deadline)
			q.lots[10].totalCost = nullDec(tt.lotCost)

			for id, amt := range tt.payments {
				q.payments[id] = &recompute.PaymentState{ID: id, LotID: 10, AmountPaid: dec(amt)}
			}

			q.payments[1].TotalDue = tt.totalDue

			p, err := newEngine().RecomputeLedger(ctx, q, 1)
			require.NoError(t, err)
			require.NotNil(t, p)

			assert.True(t, p.TotalDue.Decimal.Equal(dec(tt.wantDue)), "total_due %s", p.TotalDue.Decimal)
			assert.True(t, p.BalanceRemaining.Equal(dec(tt.wantBalance)), "balance %s", p.BalanceRemaining)
			assert.Equal(t, tt.wantStatus, p.Status)
			assert.Equal(t, tt.wantStatus, q.payments[1].Status)
		})
	}
}

func TestEngine_RecomputeLedger_OverdueFollowsWorkshopCalendar(t *testing.T) {
	// 20:00 UTC on the 14th is already the 15th in a UTC+05:30 workshop.
	now := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		loc        *time.Location
		wantStatus recompute.PaymentStatus
	}{
		{name: "UTC calendar", loc: time.UTC, wantStatus: recompute.PaymentPartial},
		{name: "workshop calendar", loc: time.FixedZone("IST", 5*3600+1800), wantStatus: recompute.PaymentOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newMemQueries()
			seededLot(q, 10, deadline)
			q.lots[10].totalCost = nullDec("500")
			q.payments[1] = &recompute.PaymentState{ID: 1, LotID: 10, AmountPaid: dec("100")}

			engine := recompute.NewEngine(
				recompute.WithClock(func() time.Time { return now }),
				recompute.WithLocation(tt.loc),
			)

			p, err := engine.RecomputeLedger(context.Background(), q, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, p.Status)
		})
	}
}

func TestEngine_RecomputeLedger_MissingLot(t *testing.T) {
	q := newMemQueries()
	q.payments[1] = &recompute.PaymentState{ID: 1, LotID: 77, AmountPaid: dec("50")}

	p, err := newEngine().RecomputeLedger(context.Background(), q, 1)
	require.NoError(t, err)

	assert.True(t, p.TotalDue.Decimal.IsZero())
	assert.True(t, p.BalanceRemaining.Equal(dec("-50")))
	assert.Equal(t, recompute.PaymentPaid, p.Status)
}

func TestEngine_RecomputeLedger_MissingPayment(t *testing.T) {
	p, err := newEngine().RecomputeLedger(context.Background(), newMemQueries(), 5)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func daybookQueries() *memQueries {
	q := newMemQueries()
	q.cash[1] = &recompute.CashEntry{ID: 1, Type: recompute.CashCredit, Amount: dec("100")}
	q.cash[2] = &recompute.CashEntry{ID: 2, Type: recompute.CashDebit, Amount: dec("30")}
	q.cash[3] = &recompute.CashEntry{ID: 3, Type: recompute.CashCredit, Amount: dec("50")}

	return q
}

func TestEngine_RecomputeDaybookBalance(t *testing.T) {
	ctx := context.Background()
	q := daybookQueries()
	engine := newEngine()

	for id, want := range map[int64]string{1: "100", 2: "70", 3: "120"} {
		got, err := engine.RecomputeDaybookBalance(ctx, q, id)
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(want)), "id %d: got %s want %s", id, got, want)
	}
}

func TestEngine_DaybookEditLeavesLaterRowsStale(t *testing.T) {
	ctx := context.Background()
	q := daybookQueries()
	engine := newEngine()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, engine.Apply(ctx, q, recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpCreate, ID: id}))
	}

	q.cash[1].Amount = dec("200")
	require.NoError(t, engine.Apply(ctx, q, recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpUpdate, ID: 1}))

	assert.True(t, q.balances[1].Equal(dec("200")))
	assert.True(t, q.balances[3].Equal(dec("120")), "later rows keep their stored balance")

	n, err := engine.RechainDaybook(ctx, q, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, q.balances[2].Equal(dec("170")))
	assert.True(t, q.balances[3].Equal(dec("220")))
}

func TestEngine_ApplyWorkerRate(t *testing.T) {
	ctx := context.Background()
	q := newMemQueries()
	q.workers[3] = dec("250")
	engine := newEngine()

	a := &rateHolder{}
	ok, err := engine.ApplyWorkerRate(ctx, q, 3, a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, a.rate.Equal(dec("250")))

	q.workers[3] = dec("300")
	assert.True(t, a.rate.Equal(dec("250")), "snapshot is not a live reference")

	ok, err = engine.ApplyWorkerRate(ctx, q, 3, a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, a.rate.Equal(dec("300")))

	missing := &rateHolder{rate: dec("80")}
	ok, err = engine.ApplyWorkerRate(ctx, q, 42, missing)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, missing.rate.Equal(dec("80")))
}

func TestEngine_Apply_MovedAssignmentRefreshesBothLots(t *testing.T) {
	ctx := context.Background()
	q := newMemQueries()
	q.orders[1] = &fakeOrder{units: 10}
	q.lots[10] = &fakeLot{orderID: 1, totalCost: nullDec("200"), progress: 50}
	q.lots[11] = &fakeLot{orderID: 1}

	q.assignments[1] = fakeAssignment{lotID: 11, line: recompute.LaborLine{Hours: nullDec("4"), Rate: nullDec("50"), Units: 5}}

	err := newEngine().Apply(ctx, q, recompute.Change{
		Entity:    recompute.EntityAssignment,
		Op:        recompute.OpUpdate,
		ID:        1,
		LotID:     11,
		PrevLotID: 10,
	})
	require.NoError(t, err)

	assert.True(t, q.lots[10].totalCost.Decimal.IsZero())
	assert.Equal(t, 0, q.lots[10].progress)
	assert.True(t, q.lots[11].totalCost.Decimal.Equal(dec("200")))
	assert.Equal(t, 50, q.lots[11].progress)
}

func TestEngine_Apply_DeletesWithoutRecompute(t *testing.T) {
	ctx := context.Background()
	q := daybookQueries()
	q.balances[3] = dec("120")
	delete(q.cash, 2)

	engine := newEngine()
	require.NoError(t, engine.Apply(ctx, q, recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpDelete, ID: 2}))
	assert.True(t, q.balances[3].Equal(dec("120")))

	require.NoError(t, engine.Apply(ctx, q, recompute.Change{Entity: recompute.EntityPayment, Op: recompute.OpDelete, ID: 9, LotID: 10}))
}

func TestEngine_Apply_UnknownEntity(t *testing.T) {
	err := newEngine().Apply(context.Background(), newMemQueries(), recompute.Change{Entity: "widget"})
	assert.Error(t, err)
}
