package daybook

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
)

type Handler struct {
	svc *daybook.Service
}

func NewHandler(svc *daybook.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/rechain", h.rechain)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createEntryRequest struct {
	Date        httpx.Date      `json:"transaction_date" validate:"required"`
	Type        daybook.Type    `json:"transaction_type" validate:"required,oneof=Debit Credit"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description"`
	LotID       *int64          `json:"lot_id,omitempty" validate:"omitempty,gt=0"`
	Reference   string          `json:"reference_number" validate:"max=50"`

	// Derived on save. Accepted and ignored.
	BalanceAfter any `json:"balance_after_transaction"`
}

// balance_after_transaction is derived on save.
type updateEntryRequest struct {
	Date        *httpx.Date      `json:"transaction_date,omitempty"`
	Type        *daybook.Type    `json:"transaction_type,omitempty" validate:"omitempty,oneof=Debit Credit"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description *string          `json:"description,omitempty"`
	LotID       *int64           `json:"lot_id,omitempty" validate:"omitempty,gt=0"`
	Reference   *string          `json:"reference_number,omitempty" validate:"omitempty,max=50"`
}

type rechainRequest struct {
	FromID int64 `json:"from_id" validate:"gte=0"`
}

type rechainResponse struct {
	Rechained int `json:"rechained"`
}

type entryResponse struct {
	ID           int64               `json:"transaction_id"`
	Date         httpx.Date          `json:"transaction_date"`
	Type         daybook.Type        `json:"transaction_type"`
	Amount       decimal.Decimal     `json:"amount"`
	Description  string              `json:"description,omitempty"`
	LotID        *int64              `json:"lot_id"`
	Reference    string              `json:"reference_number,omitempty"`
	BalanceAfter decimal.NullDecimal `json:"balance_after_transaction"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toResponse(e *daybook.Entry) entryResponse {
	return entryResponse{
		ID:           e.ID,
		Date:         httpx.NewDate(e.Date),
		Type:         e.Type,
		Amount:       e.Amount,
		Description:  e.Description,
		LotID:        e.LotID,
		Reference:    e.Reference,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	e, err := h.svc.Create(r.Context(), daybook.CreateParams{
		Date:        req.Date.Time,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		LotID:       req.LotID,
		Reference:   req.Reference,
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

	start, err := httpx.QueryDate(r, "start_date")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	end, err := httpx.QueryDate(r, "end_date")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	filter := daybook.ListFilter{
		LotID:     lotID,
		StartDate: start,
		EndDate:   end,
		Search:    r.URL.Query().Get("q"),
	}

	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type = new(daybook.Type(t))
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
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
		httpx.Error(w, err, daybook.ErrNotFound)
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

	var req updateEntryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, daybook.ErrNotFound)
		return
	}

	if req.Date != nil {
		e.Date = req.Date.Time
	}

	if req.Type != nil {
		e.Type = *req.Type
	}

	if req.Amount != nil {
		e.Amount = *req.Amount
	}

	if req.Description != nil {
		e.Description = *req.Description
	}

	if req.LotID != nil {
		e.LotID = req.LotID
	}

	if req.Reference != nil {
		e.Reference = *req.Reference
	}

	if err := h.svc.Update(r.Context(), e); err != nil {
		httpx.Error(w, err, daybook.ErrNotFound)
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
		httpx.Error(w, err, daybook.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// rechain rewrites running balances from from_id onwards; 0 rewrites the whole book.
func (h *Handler) rechain(w http.ResponseWriter, r *http.Request) {
	var req rechainRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	n, err := h.svc.Rechain(r.Context(), req.FromID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, rechainResponse{Rechained: n})
}
