package assignment

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/assignment"
	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
)

type Handler struct {
	svc *assignment.Service
}

func NewHandler(svc *assignment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createAssignmentRequest struct {
	LotID         int64           `json:"lot_id" validate:"required,gt=0"`
	WorkerID      int64           `json:"worker_id" validate:"required,gt=0"`
	UnitsProduced int             `json:"units_produced" validate:"gte=0"`
	HoursWorked   decimal.Decimal `json:"hours_worked" validate:"gte=0"`
	// RatePerHour is used only when the worker has no rate on record.
	RatePerHour decimal.NullDecimal `json:"rate_per_hour" validate:"omitempty,gte=0"`
}

// rate_per_hour is re-read from the worker on every save and is not accepted here.
type updateAssignmentRequest struct {
	LotID         *int64           `json:"lot_id,omitempty" validate:"omitempty,gt=0"`
	WorkerID      *int64           `json:"worker_id,omitempty" validate:"omitempty,gt=0"`
	UnitsProduced *int             `json:"units_produced,omitempty" validate:"omitempty,gte=0"`
	HoursWorked   *decimal.Decimal `json:"hours_worked,omitempty" validate:"omitempty,gte=0"`
}

type assignmentResponse struct {
	ID            int64               `json:"lot_worker_id"`
	LotID         int64               `json:"lot_id"`
	WorkerID      int64               `json:"worker_id"`
	UnitsProduced int                 `json:"units_produced"`
	HoursWorked   decimal.Decimal     `json:"hours_worked"`
	RatePerHour   decimal.NullDecimal `json:"rate_per_hour"`
	LaborCost     decimal.Decimal     `json:"labor_cost"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toResponse(a *assignment.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:            a.ID,
		LotID:         a.LotID,
		WorkerID:      a.WorkerID,
		UnitsProduced: a.UnitsProduced,
		HoursWorked:   a.HoursWorked,
		RatePerHour:   a.RatePerHour,
		LaborCost:     a.LaborCost(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	a, err := h.svc.Create(r.Context(), assignment.CreateParams{
		LotID:         req.LotID,
		WorkerID:      req.WorkerID,
		UnitsProduced: req.UnitsProduced,
		HoursWorked:   req.HoursWorked,
		RatePerHour:   req.RatePerHour,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lotID, err := httpx.QueryID(r, "lot_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	workerID, err := httpx.QueryID(r, "worker_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	assignments, err := h.svc.List(r.Context(), assignment.ListFilter{LotID: lotID, WorkerID: workerID})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]assignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = toResponse(a)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, assignment.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateAssignmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, assignment.ErrNotFound)
		return
	}

	if req.LotID != nil {
		a.LotID = *req.LotID
	}

	if req.WorkerID != nil {
		a.WorkerID = *req.WorkerID
	}

	if req.UnitsProduced != nil {
		a.UnitsProduced = *req.UnitsProduced
	}

	if req.HoursWorked != nil {
		a.HoursWorked = *req.HoursWorked
	}

	if err := h.svc.Update(r.Context(), a); err != nil {
		httpx.Error(w, err, assignment.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, assignment.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
