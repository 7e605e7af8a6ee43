package expense

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/expense"
	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	LotID       int64           `json:"lot_id" validate:"required,gt=0"`
	ExpenseType string          `json:"expense_type" validate:"required,max=50"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	ExpenseDate httpx.Date      `json:"expense_date" validate:"required"`
	Vendor      string          `json:"vendor" validate:"max=100"`
	Notes       string          `json:"notes"`
}

type updateExpenseRequest struct {
	LotID       *int64           `json:"lot_id,omitempty" validate:"omitempty,gt=0"`
	ExpenseType *string          `json:"expense_type,omitempty" validate:"omitempty,min=1,max=50"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gte=0"`
	ExpenseDate *httpx.Date      `json:"expense_date,omitempty"`
	Vendor      *string          `json:"vendor,omitempty" validate:"omitempty,max=100"`
	Notes       *string          `json:"notes,omitempty"`
}

type expenseResponse struct {
	ID          int64           `json:"expense_id"`
	LotID       int64           `json:"lot_id"`
	ExpenseType string          `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate httpx.Date      `json:"expense_date"`
	Vendor      string          `json:"vendor,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		LotID:       e.LotID,
		ExpenseType: e.ExpenseType,
		Amount:      e.Amount,
		ExpenseDate: httpx.NewDate(e.ExpenseDate),
		Vendor:      e.Vendor,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		LotID:       req.LotID,
		ExpenseType: req.ExpenseType,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate.Time,
		Vendor:      req.Vendor,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lotID, err := httpx.QueryID(r, "lot_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	expenses, err := h.svc.List(r.Context(), expense.ListFilter{
		LotID:       lotID,
		ExpenseType: r.URL.Query().Get("expense_type"),
		Search:      r.URL.Query().Get("q"),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, expense.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateExpenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, expense.ErrNotFound)
		return
	}

	if req.LotID != nil {
		e.LotID = *req.LotID
	}

	if req.ExpenseType != nil {
		e.ExpenseType = *req.ExpenseType
	}

	if req.Amount != nil {
		e.Amount = *req.Amount
	}

	if req.ExpenseDate != nil {
		e.ExpenseDate = req.ExpenseDate.Time
	}

	if req.Vendor != nil {
		e.Vendor = *req.Vendor
	}

	if req.Notes != nil {
		e.Notes = *req.Notes
	}

	if err := h.svc.Update(r.Context(), e); err != nil {
		httpx.Error(w, err, expense.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, expense.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
