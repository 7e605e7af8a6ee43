package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/order"
)

type Handler struct {
	svc *order.Service
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createOrderRequest struct {
	ClientID           int64               `json:"client_id" validate:"required,gt=0"`
	DesignDescription  string              `json:"design_description"`
	NumUnits           int                 `json:"num_units" validate:"gte=0"`
	Deadline           httpx.Date          `json:"deadline" validate:"required"`
	Color              string              `json:"color" validate:"max=50"`
	MaterialType       string              `json:"material_type" validate:"max=100"`
	Status             order.Status        `json:"order_status" validate:"omitempty,oneof=New 'In Progress' Completed Cancelled"`
	TotalEstimatedCost decimal.NullDecimal `json:"total_estimated_cost" validate:"omitempty,gte=0"`
}

type updateOrderRequest struct {
	DesignDescription  *string              `json:"design_description,omitempty"`
	NumUnits           *int                 `json:"num_units,omitempty" validate:"omitempty,gte=0"`
	Deadline           *httpx.Date          `json:"deadline,omitempty"`
	Color              *string              `json:"color,omitempty" validate:"omitempty,max=50"`
	MaterialType       *string              `json:"material_type,omitempty" validate:"omitempty,max=100"`
	Status             *order.Status        `json:"order_status,omitempty" validate:"omitempty,oneof=New 'In Progress' Completed Cancelled"`
	TotalEstimatedCost *decimal.NullDecimal `json:"total_estimated_cost,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	o, err := h.svc.Create(r.Context(), order.CreateParams{
		ClientID:           req.ClientID,
		DesignDescription:  req.DesignDescription,
		NumUnits:           req.NumUnits,
		Deadline:           req.Deadline.Time,
		Color:              req.Color,
		MaterialType:       req.MaterialType,
		Status:             req.Status,
		TotalEstimatedCost: req.TotalEstimatedCost,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(o))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clientID, err := httpx.QueryID(r, "client_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	filter := order.ListFilter{ClientID: clientID, Search: r.URL.Query().Get("q")}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(order.Status(s))
	}

	orders, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponseList(orders))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, order.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, order.ErrNotFound)
		return
	}

	if req.DesignDescription != nil {
		o.DesignDescription = *req.DesignDescription
	}

	if req.NumUnits != nil {
		o.NumUnits = *req.NumUnits
	}

	if req.Deadline != nil {
		o.Deadline = req.Deadline.Time
	}

	if req.Color != nil {
		o.Color = *req.Color
	}

	if req.MaterialType != nil {
		o.MaterialType = *req.MaterialType
	}

	if req.Status != nil {
		o.Status = *req.Status
	}

	if req.TotalEstimatedCost != nil {
		o.TotalEstimatedCost = *req.TotalEstimatedCost
	}

	if err := h.svc.Update(r.Context(), o); err != nil {
		httpx.Error(w, err, order.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, order.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
