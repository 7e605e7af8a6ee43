package client

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shankh/internal/client"
	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
)

type Handler struct {
	svc *client.Service
}

func NewHandler(svc *client.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createClientRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	BusinessName string `json:"business_name" validate:"max=100"`
	PhoneNumber  string `json:"phone_number" validate:"max=20"`
	ShopAddress  string `json:"shop_address" validate:"max=255"`
	Email        string `json:"email" validate:"omitempty,email,max=100"`
}

type updateClientRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	BusinessName *string `json:"business_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber  *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	ShopAddress  *string `json:"shop_address,omitempty" validate:"omitempty,max=255"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	c, err := h.svc.Create(r.Context(), client.CreateParams{
		Name:         req.Name,
		BusinessName: req.BusinessName,
		PhoneNumber:  req.PhoneNumber,
		ShopAddress:  req.ShopAddress,
		Email:        req.Email,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context(), client.ListFilter{Search: r.URL.Query().Get("q")})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponseList(clients))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, client.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateClientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, client.ErrNotFound)
		return
	}

	if req.Name != nil {
		c.Name = *req.Name
	}

	if req.BusinessName != nil {
		c.BusinessName = *req.BusinessName
	}

	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
	}

	if req.ShopAddress != nil {
		c.ShopAddress = *req.ShopAddress
	}

	if req.Email != nil {
		c.Email = *req.Email
	}

	if err := h.svc.Update(r.Context(), c); err != nil {
		httpx.Error(w, err, client.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, client.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
