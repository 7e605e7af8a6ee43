package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the dashboard. Per-lot and per-client reports are mounted under their
// resources with LotSummary and ClientBalance.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/lot-status", h.lotStatus)
	r.Get("/worker-productivity", h.workerProductivity)
	r.Get("/inventory-usage", h.inventoryUsage)
	r.Get("/monthly-data", h.monthlyData)
	r.Get("/recent-activities", h.recentActivities)
}

type lotSummaryResponse struct {
	LotID         int64           `json:"lot_id"`
	UnitsProduced int64           `json:"units_produced"`
	HoursWorked   decimal.Decimal `json:"hours_worked"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	MaterialCost  decimal.Decimal `json:"material_cost"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	Balance       decimal.Decimal `json:"balance"`
	DaybookDebit  decimal.Decimal `json:"daybook_debit"`
	DaybookCredit decimal.Decimal `json:"daybook_credit"`
}

type clientBalanceResponse struct {
	ClientID           int64           `json:"client_id"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	EstimatedTotalCost decimal.Decimal `json:"estimated_total_cost"`
	Balance            decimal.Decimal `json:"balance"`
}

type statsResponse struct {
	TotalClients      int64           `json:"total_clients"`
	ActiveOrders      int64           `json:"active_orders"`
	OngoingLots       int64           `json:"ongoing_lots"`
	Revenue           decimal.Decimal `json:"revenue"`
	OverduePayments   int64           `json:"overdue_payments"`
	AvgUnitsPerWorker decimal.Decimal `json:"avg_units_per_worker"`
}

type statusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type workerOutputResponse struct {
	WorkerID      int64           `json:"worker_id"`
	Name          string          `json:"name"`
	UnitsProduced int64           `json:"units_produced"`
	Efficiency    decimal.Decimal `json:"efficiency"`
}

type materialUsageResponse struct {
	Material  string          `json:"material"`
	Used      decimal.Decimal `json:"used"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

type monthResponse struct {
	Month    int             `json:"month"`
	Name     string          `json:"name"`
	Orders   int64           `json:"orders"`
	Lots     int64           `json:"lots"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

type activityResponse struct {
	Type      report.ActivityKind `json:"type"`
	RefID     int64               `json:"ref_id"`
	Title     string              `json:"title"`
	Subtitle  string              `json:"subtitle,omitempty"`
	Amount    decimal.NullDecimal `json:"amount"`
	Timestamp time.Time           `json:"timestamp"`
}

// LotSummary serves GET /lots/{id}/summary.
func (h *Handler) LotSummary(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	s, err := h.svc.LotSummary(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, report.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, lotSummaryResponse{
		LotID:         s.LotID,
		UnitsProduced: s.UnitsProduced,
		HoursWorked:   s.HoursWorked,
		LaborCost:     s.LaborCost,
		MaterialCost:  s.MaterialCost,
		OtherExpenses: s.OtherExpenses,
		TotalCost:     s.TotalCost,
		TotalPayments: s.TotalPayments,
		Balance:       s.Balance,
		DaybookDebit:  s.DaybookDebit,
		DaybookCredit: s.DaybookCredit,
	})
}

// ClientBalance serves GET /clients/{id}/balance.
func (h *Handler) ClientBalance(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	b, err := h.svc.ClientBalance(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, report.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, clientBalanceResponse{
		ClientID:           b.ClientID,
		TotalPaid:          b.TotalPaid,
		EstimatedTotalCost: b.EstimatedTotalCost,
		Balance:            b.Balance,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, statsResponse{
		TotalClients:      s.TotalClients,
		ActiveOrders:      s.ActiveOrders,
		OngoingLots:       s.OngoingLots,
		Revenue:           s.Revenue,
		OverduePayments:   s.OverduePayments,
		AvgUnitsPerWorker: s.AvgUnitsPerWorker,
	})
}

func (h *Handler) lotStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.LotStatusBreakdown(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]statusCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = statusCountResponse{Status: c.Status, Count: c.Count}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) workerProductivity(w http.ResponseWriter, r *http.Request) {
	outputs, err := h.svc.WorkerProductivity(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]workerOutputResponse, len(outputs))
	for i, o := range outputs {
		resp[i] = workerOutputResponse{
			WorkerID:      o.WorkerID,
			Name:          o.Name,
			UnitsProduced: o.UnitsProduced,
			Efficiency:    o.Efficiency,
		}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) inventoryUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.svc.InventoryUsage(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]materialUsageResponse, len(usage))
	for i, u := range usage {
		resp[i] = materialUsageResponse{Material: u.Material, Used: u.Used, TotalCost: u.TotalCost}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) monthlyData(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.MonthlyData(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]monthResponse, len(months))
	for i, m := range months {
		resp[i] = monthResponse{
			Month:    int(m.Month),
			Name:     m.Month.String()[:3],
			Orders:   m.Orders,
			Lots:     m.Lots,
			Revenue:  m.Revenue,
			Expenses: m.Expenses,
		}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) recentActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.RecentActivities(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]activityResponse, len(activities))
	for i, a := range activities {
		resp[i] = activityResponse{
			Type:      a.Kind,
			RefID:     a.RefID,
			Title:     a.Title,
			Subtitle:  a.Subtitle,
			Amount:    a.Amount,
			Timestamp: a.At,
		}
	}

	httpx.JSON(w, http.StatusOK, resp)
}
