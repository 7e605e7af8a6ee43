package worker

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/worker"
)

type Handler struct {
	svc *worker.Service
}

func NewHandler(svc *worker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createWorkerRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	RatePerHour decimal.Decimal `json:"rate_per_hour" validate:"gte=0"`
	SkillType   string          `json:"skill_type" validate:"max=50"`
}

type updateWorkerRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	RatePerHour *decimal.Decimal `json:"rate_per_hour,omitempty" validate:"omitempty,gte=0"`
	SkillType   *string          `json:"skill_type,omitempty" validate:"omitempty,max=50"`
}

type workerResponse struct {
	ID          int64           `json:"worker_id"`
	Name        string          `json:"name"`
	RatePerHour decimal.Decimal `json:"rate_per_hour"`
	SkillType   string          `json:"skill_type,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toResponse(wk *worker.Worker) workerResponse {
	return workerResponse{
		ID:          wk.ID,
		Name:        wk.Name,
		RatePerHour: wk.RatePerHour,
		SkillType:   wk.SkillType,
		CreatedAt:   wk.CreatedAt,
		UpdatedAt:   wk.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createWorkerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	wk, err := h.svc.Create(r.Context(), worker.CreateParams{
		Name:        req.Name,
		RatePerHour: req.RatePerHour,
		SkillType:   req.SkillType,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(wk))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	workers, err := h.svc.List(r.Context(), worker.ListFilter{
		SkillType: r.URL.Query().Get("skill_type"),
		Search:    r.URL.Query().Get("q"),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]workerResponse, len(workers))
	for i, wk := range workers {
		resp[i] = toResponse(wk)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	wk, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, worker.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(wk))
}

// update never touches the worker's existing assignments: they keep the rate they were saved with.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateWorkerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	wk, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, worker.ErrNotFound)
		return
	}

	if req.Name != nil {
		wk.Name = *req.Name
	}

	if req.RatePerHour != nil {
		wk.RatePerHour = *req.RatePerHour
	}

	if req.SkillType != nil {
		wk.SkillType = *req.SkillType
	}

	if err := h.svc.Update(r.Context(), wk); err != nil {
		httpx.Error(w, err, worker.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(wk))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, worker.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
