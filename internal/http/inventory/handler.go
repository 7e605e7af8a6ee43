package inventory

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createUsageRequest struct {
	LotID        int64           `json:"lot_id" validate:"required,gt=0"`
	MaterialName string          `json:"material_name" validate:"required,max=100"`
	QuantityUsed decimal.Decimal `json:"quantity_used" validate:"gte=0"`
	UnitCost     decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	DateUsed     httpx.Date      `json:"date_used" validate:"required"`
	SupplierName string          `json:"supplier_name" validate:"max=100"`
}

type updateUsageRequest struct {
	LotID        *int64           `json:"lot_id,omitempty" validate:"omitempty,gt=0"`
	MaterialName *string          `json:"material_name,omitempty" validate:"omitempty,min=1,max=100"`
	QuantityUsed *decimal.Decimal `json:"quantity_used,omitempty" validate:"omitempty,gte=0"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	DateUsed     *httpx.Date      `json:"date_used,omitempty"`
	SupplierName *string          `json:"supplier_name,omitempty" validate:"omitempty,max=100"`
}

type usageResponse struct {
	ID           int64           `json:"inventory_id"`
	LotID        int64           `json:"lot_id"`
	MaterialName string          `json:"material_name"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Cost         decimal.Decimal `json:"cost"`
	DateUsed     httpx.Date      `json:"date_used"`
	SupplierName string          `json:"supplier_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toResponse(u *inventory.Usage) usageResponse {
	return usageResponse{
		ID:           u.ID,
		LotID:        u.LotID,
		MaterialName: u.MaterialName,
		QuantityUsed: u.QuantityUsed,
		UnitCost:     u.UnitCost,
		Cost:         u.Cost(),
		DateUsed:     httpx.NewDate(u.DateUsed),
		SupplierName: u.SupplierName,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUsageRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	u, err := h.svc.Create(r.Context(), inventory.CreateParams{
		LotID:        req.LotID,
		MaterialName: req.MaterialName,
		QuantityUsed: req.QuantityUsed,
		UnitCost:     req.UnitCost,
		DateUsed:     req.DateUsed.Time,
		SupplierName: req.SupplierName,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(u))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lotID, err := httpx.QueryID(r, "lot_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	usages, err := h.svc.List(r.Context(), inventory.ListFilter{LotID: lotID, Search: r.URL.Query().Get("q")})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]usageResponse, len(usages))
	for i, u := range usages {
		resp[i] = toResponse(u)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, inventory.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateUsageRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, inventory.ErrNotFound)
		return
	}

	if req.LotID != nil {
		u.LotID = *req.LotID
	}

	if req.MaterialName != nil {
		u.MaterialName = *req.MaterialName
	}

	if req.QuantityUsed != nil {
		u.QuantityUsed = *req.QuantityUsed
	}

	if req.UnitCost != nil {
		u.UnitCost = *req.UnitCost
	}

	if req.DateUsed != nil {
		u.DateUsed = req.DateUsed.Time
	}

	if req.SupplierName != nil {
		u.SupplierName = *req.SupplierName
	}

	if err := h.svc.Update(r.Context(), u); err != nil {
		httpx.Error(w, err, inventory.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, inventory.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
