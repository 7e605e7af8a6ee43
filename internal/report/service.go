package report

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	LotExists(ctx context.Context, lotID int64) error
	LotLabor(ctx context.Context, lotID int64) (Labor, error)
	LotMaterialCost(ctx context.Context, lotID int64) (decimal.Decimal, error)
	LotExpenseTotal(ctx context.Context, lotID int64) (decimal.Decimal, error)
	LotPaymentTotal(ctx context.Context, lotID int64) (decimal.Decimal, error)
	LotCashTotals(ctx context.Context, lotID int64) (CashTotals, error)

	ClientExists(ctx context.Context, clientID int64) error
	ClientPaymentTotal(ctx context.Context, clientID int64) (decimal.Decimal, error)
	ClientLotCost(ctx context.Context, clientID int64) (decimal.Decimal, error)

	CountClients(ctx context.Context) (int64, error)
	CountActiveOrders(ctx context.Context) (int64, error)
	CountOngoingLots(ctx context.Context) (int64, error)
	Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountOverduePayments(ctx context.Context) (int64, error)
	AverageUnitsPerAssignment(ctx context.Context) (decimal.Decimal, error)

	LotStatusCounts(ctx context.Context) ([]StatusCount, error)
	WorkerOutputs(ctx context.Context) ([]WorkerOutput, error)
	MaterialUsage(ctx context.Context) ([]MaterialUsage, error)

	MonthlyOrderCounts(ctx context.Context, from, to time.Time) (map[time.Month]int64, error)
	MonthlyLotCounts(ctx context.Context, from, to time.Time) (map[time.Month]int64, error)
	MonthlyRevenue(ctx context.Context, from, to time.Time) (map[time.Month]decimal.Decimal, error)
	MonthlyExpenses(ctx context.Context, from, to time.Time) (map[time.Month]decimal.Decimal, error)

	RecentCompletedLots(ctx context.Context, limit int) ([]Activity, error)
	RecentPayments(ctx context.Context, limit int) ([]Activity, error)
}

const (
	recentLotLimit     = 5
	recentPaymentLimit = 3
	maxActivities      = 10
)

// Service builds read-only reports. Independent queries of one report run concurrently, and identical
// dashboard requests in flight at the same time share one set of queries.
type Service struct {
	repo   Repository
	now    func() time.Time
	flight singleflight.Group
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) LotSummary(ctx context.Context, lotID int64) (*LotSummary, error) {
	if err := s.repo.LotExists(ctx, lotID); err != nil {
		return nil, err
	}

	var (
		sum   = LotSummary{LotID: lotID}
		labor Labor
		cash  CashTotals
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		labor, err = s.repo.LotLabor(gctx, lotID)
		return wrap("lot labor", err)
	})
	g.Go(func() (err error) {
		sum.MaterialCost, err = s.repo.LotMaterialCost(gctx, lotID)
		return wrap("lot material cost", err)
	})
	g.Go(func() (err error) {
		sum.OtherExpenses, err = s.repo.LotExpenseTotal(gctx, lotID)
		return wrap("lot expenses", err)
	})
	g.Go(func() (err error) {
		sum.TotalPayments, err = s.repo.LotPaymentTotal(gctx, lotID)
		return wrap("lot payments", err)
	})
	g.Go(func() (err error) {
		cash, err = s.repo.LotCashTotals(gctx, lotID)
		return wrap("lot day book totals", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum.UnitsProduced = labor.UnitsProduced
	sum.HoursWorked = labor.HoursWorked
	sum.LaborCost = labor.Cost
	sum.TotalCost = labor.Cost.Add(sum.MaterialCost).Add(sum.OtherExpenses)
	sum.Balance = sum.TotalPayments.Sub(sum.TotalCost)
	sum.DaybookDebit = cash.Debit
	sum.DaybookCredit = cash.Credit

	return &sum, nil
}

func (s *Service) ClientBalance(ctx context.Context, clientID int64) (*ClientBalance, error) {
	if err := s.repo.ClientExists(ctx, clientID); err != nil {
		return nil, err
	}

	bal := ClientBalance{ClientID: clientID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		bal.TotalPaid, err = s.repo.ClientPaymentTotal(gctx, clientID)
		return wrap("client payments", err)
	})
	g.Go(func() (err error) {
		bal.EstimatedTotalCost, err = s.repo.ClientLotCost(gctx, clientID)
		return wrap("client lot cost", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	bal.Balance = bal.TotalPaid.Sub(bal.EstimatedTotalCost)

	return &bal, nil
}

func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	return shared(ctx, &s.flight, "dashboard:stats", s.dashboardStats)
}

func (s *Service) dashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	from, to := s.currentYear()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalClients, err = s.repo.CountClients(gctx)
		return wrap("counting clients", err)
	})
	g.Go(func() (err error) {
		stats.ActiveOrders, err = s.repo.CountActiveOrders(gctx)
		return wrap("counting active orders", err)
	})
	g.Go(func() (err error) {
		stats.OngoingLots, err = s.repo.CountOngoingLots(gctx)
		return wrap("counting ongoing lots", err)
	})
	g.Go(func() (err error) {
		stats.Revenue, err = s.repo.Revenue(gctx, from, to)
		return wrap("summing revenue", err)
	})
	g.Go(func() (err error) {
		stats.OverduePayments, err = s.repo.CountOverduePayments(gctx)
		return wrap("counting overdue payments", err)
	})
	g.Go(func() (err error) {
		stats.AvgUnitsPerWorker, err = s.repo.AverageUnitsPerAssignment(gctx)
		return wrap("averaging units", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *Service) LotStatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	return shared(ctx, &s.flight, "dashboard:lot-status", s.repo.LotStatusCounts)
}

func (s *Service) WorkerProductivity(ctx context.Context) ([]WorkerOutput, error) {
	return shared(ctx, &s.flight, "dashboard:worker-productivity", func(ctx context.Context) ([]WorkerOutput, error) {
		outputs, err := s.repo.WorkerOutputs(ctx)
		if err != nil {
			return nil, err
		}

		hundred := decimal.NewFromInt(100)
		for i := range outputs {
			outputs[i].Efficiency = decimal.Min(decimal.Max(outputs[i].Efficiency, decimal.Zero), hundred).Round(1)
		}

		return outputs, nil
	})
}

func (s *Service) InventoryUsage(ctx context.Context) ([]MaterialUsage, error) {
	return shared(ctx, &s.flight, "dashboard:inventory-usage", s.repo.MaterialUsage)
}

// MonthlyData returns January through the current month of this year. Months without activity are zero.
func (s *Service) MonthlyData(ctx context.Context) ([]MonthFigures, error) {
	return shared(ctx, &s.flight, "dashboard:monthly-data", s.monthlyData)
}

func (s *Service) monthlyData(ctx context.Context) ([]MonthFigures, error) {
	var (
		orders, lots      map[time.Month]int64
		revenue, expenses map[time.Month]decimal.Decimal
	)

	from, to := s.currentYear()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		orders, err = s.repo.MonthlyOrderCounts(gctx, from, to)
		return wrap("monthly orders", err)
	})
	g.Go(func() (err error) {
		lots, err = s.repo.MonthlyLotCounts(gctx, from, to)
		return wrap("monthly lots", err)
	})
	g.Go(func() (err error) {
		revenue, err = s.repo.MonthlyRevenue(gctx, from, to)
		return wrap("monthly revenue", err)
	})
	g.Go(func() (err error) {
		expenses, err = s.repo.MonthlyExpenses(gctx, from, to)
		return wrap("monthly expenses", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	last := s.now().UTC().Month()
	months := make([]MonthFigures, 0, int(last))

	for m := time.January; m <= last; m++ {
		months = append(months, MonthFigures{
			Month:    m,
			Orders:   orders[m],
			Lots:     lots[m],
			Revenue:  orZero(revenue[m]),
			Expenses: orZero(expenses[m]),
		})
	}

	return months, nil
}

// RecentActivities merges the latest completed lots and payments, newest first.
func (s *Service) RecentActivities(ctx context.Context) ([]Activity, error) {
	return shared(ctx, &s.flight, "dashboard:recent-activities", s.recentActivities)
}

func (s *Service) recentActivities(ctx context.Context) ([]Activity, error) {
	var lots, payments []Activity

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		lots, err = s.repo.RecentCompletedLots(gctx, recentLotLimit)
		return wrap("recent lots", err)
	})
	g.Go(func() (err error) {
		payments, err = s.repo.RecentPayments(gctx, recentPaymentLimit)
		return wrap("recent payments", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range lots {
		lots[i].Kind = ActivityLotCompleted
		lots[i].Title = fmt.Sprintf("Lot #%d completed", lots[i].RefID)
	}

	for i := range payments {
		payments[i].Kind = ActivityPaymentReceived
		payments[i].Title = "Payment received"
	}

	activities := append(lots, payments...)
	slices.SortStableFunc(activities, func(a, b Activity) int {
		return b.At.Compare(a.At)
	})

	if len(activities) > maxActivities {
		activities = activities[:maxActivities]
	}

	return activities, nil
}

func (s *Service) currentYear() (from, to time.Time) {
	from = time.Date(s.now().UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// orZero maps the zero Decimal of a missing map entry to an explicit zero.
func orZero(d decimal.Decimal) decimal.Decimal {
	if d.Equal(decimal.Zero) {
		return decimal.Zero
	}

	return d
}

// shared runs fn once for all concurrent callers using the same key. fn does not observe the first
// caller's cancellation.
func shared[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	v, err, _ := g.Do(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	return nil
}
