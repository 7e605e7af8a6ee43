package lot

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
)

type Handler struct {
	svc *lot.Service
}

func NewHandler(svc *lot.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createLotRequest struct {
	OrderID      int64       `json:"order_id" validate:"required,gt=0"`
	Status       lot.Status  `json:"lot_status" validate:"omitempty,oneof=Pending 'In Progress' Completed 'On Hold'"`
	StartDate    *httpx.Date `json:"start_date,omitempty"`
	EndDate      *httpx.Date `json:"end_date,omitempty"`
	CurrentStage string      `json:"current_stage" validate:"max=50"`
	Notes        string      `json:"notes"`

	// Derived on save. Accepted and ignored.
	TotalCost       any `json:"total_cost"`
	ProgressPercent any `json:"progress_percent"`
}

// total_cost and progress_percent are derived and cannot be set by clients.
type updateLotRequest struct {
	Status       *lot.Status `json:"lot_status,omitempty" validate:"omitempty,oneof=Pending 'In Progress' Completed 'On Hold'"`
	StartDate    *httpx.Date `json:"start_date,omitempty"`
	EndDate      *httpx.Date `json:"end_date,omitempty"`
	CurrentStage *string     `json:"current_stage,omitempty" validate:"omitempty,max=50"`
	Notes        *string     `json:"notes,omitempty"`
}

type lotResponse struct {
	ID              int64               `json:"lot_id"`
	OrderID         int64               `json:"order_id"`
	Status          lot.Status          `json:"lot_status"`
	StartDate       *httpx.Date         `json:"start_date"`
	EndDate         *httpx.Date         `json:"end_date"`
	TotalCost       decimal.NullDecimal `json:"total_cost"`
	ProgressPercent int                 `json:"progress_percent"`
	CurrentStage    string              `json:"current_stage,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toResponse(l *lot.Lot) lotResponse {
	return lotResponse{
		ID:              l.ID,
		OrderID:         l.OrderID,
		Status:          l.Status,
		StartDate:       httpx.DatePtr(l.StartDate),
		EndDate:         httpx.DatePtr(l.EndDate),
		TotalCost:       l.TotalCost,
		ProgressPercent: l.ProgressPercent,
		CurrentStage:    l.CurrentStage,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createLotRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	l, err := h.svc.Create(r.Context(), lot.CreateParams{
		OrderID:      req.OrderID,
		Status:       req.Status,
		StartDate:    req.StartDate.TimePtr(),
		EndDate:      req.EndDate.TimePtr(),
		CurrentStage: req.CurrentStage,
		Notes:        req.Notes,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(l))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orderID, err := httpx.QueryID(r, "order_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	filter := lot.ListFilter{OrderID: orderID, Search: r.URL.Query().Get("q")}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(lot.Status(s))
	}

	lots, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]lotResponse, len(lots))
	for i, l := range lots {
		resp[i] = toResponse(l)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, lot.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateLotRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, lot.ErrNotFound)
		return
	}

	if req.Status != nil {
		l.Status = *req.Status
	}

	if req.StartDate != nil {
		l.StartDate = req.StartDate.TimePtr()
	}

	if req.EndDate != nil {
		l.EndDate = req.EndDate.TimePtr()
	}

	if req.CurrentStage != nil {
		l.CurrentStage = *req.CurrentStage
	}

	if req.Notes != nil {
		l.Notes = *req.Notes
	}

	if err := h.svc.Update(r.Context(), l); err != nil {
		httpx.Error(w, err, lot.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, lot.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
