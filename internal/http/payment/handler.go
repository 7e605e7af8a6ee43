package payment

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createPaymentRequest struct {
	LotID         int64               `json:"lot_id" validate:"required,gt=0"`
	ClientID      int64               `json:"client_id" validate:"required,gt=0"`
	PaymentDate   httpx.Date          `json:"payment_date" validate:"required"`
	AmountPaid    decimal.Decimal     `json:"amount_paid" validate:"gte=0"`
	PaymentMethod string              `json:"payment_method" validate:"max=50"`
	Notes         string              `json:"notes"`
	TotalDue      decimal.NullDecimal `json:"total_due" validate:"omitempty,gte=0"`

	// Derived on save. Accepted and ignored.
	BalanceRemaining any `json:"balance_remaining"`
	Status           any `json:"payment_status"`
	InvoiceNumber    any `json:"invoice_number"`
}

// balance_remaining, payment_status and invoice_number are derived on save.
type updatePaymentRequest struct {
	PaymentDate   *httpx.Date          `json:"payment_date,omitempty"`
	AmountPaid    *decimal.Decimal     `json:"amount_paid,omitempty" validate:"omitempty,gte=0"`
	PaymentMethod *string              `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	Notes         *string              `json:"notes,omitempty"`
	TotalDue      *decimal.NullDecimal `json:"total_due,omitempty"`
}

type paymentResponse struct {
	ID               int64               `json:"ledger_id"`
	LotID            int64               `json:"lot_id"`
	ClientID         int64               `json:"client_id"`
	PaymentDate      httpx.Date          `json:"payment_date"`
	AmountPaid       decimal.Decimal     `json:"amount_paid"`
	PaymentMethod    string              `json:"payment_method,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	TotalDue         decimal.NullDecimal `json:"total_due"`
	BalanceRemaining decimal.NullDecimal `json:"balance_remaining"`
	Status           ledger.Status       `json:"payment_status"`
	InvoiceNumber    string              `json:"invoice_number"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func toResponse(p *ledger.Payment) paymentResponse {
	return paymentResponse{
		ID:               p.ID,
		LotID:            p.LotID,
		ClientID:         p.ClientID,
		PaymentDate:      httpx.NewDate(p.PaymentDate),
		AmountPaid:       p.AmountPaid,
		PaymentMethod:    p.PaymentMethod,
		Notes:            p.Notes,
		TotalDue:         p.TotalDue,
		BalanceRemaining: p.BalanceRemaining,
		Status:           p.Status,
		InvoiceNumber:    p.InvoiceNumber,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	p, err := h.svc.Create(r.Context(), ledger.CreateParams{
		LotID:         req.LotID,
		ClientID:      req.ClientID,
		PaymentDate:   req.PaymentDate.Time,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		TotalDue:      req.TotalDue,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lotID, err := httpx.QueryID(r, "lot_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	clientID, err := httpx.QueryID(r, "client_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	filter := ledger.ListFilter{LotID: lotID, ClientID: clientID, Search: r.URL.Query().Get("q")}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(ledger.Status(s))
	}

	payments, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toResponse(p)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, ledger.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updatePaymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, ledger.ErrNotFound)
		return
	}

	if req.PaymentDate != nil {
		p.PaymentDate = req.PaymentDate.Time
	}

	if req.AmountPaid != nil {
		p.AmountPaid = *req.AmountPaid
	}

	if req.PaymentMethod != nil {
		p.PaymentMethod = *req.PaymentMethod
	}

	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	if req.TotalDue != nil {
		p.TotalDue = *req.TotalDue
	}

	if err := h.svc.Update(r.Context(), p); err != nil {
		httpx.Error(w, err, ledger.ErrNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, ledger.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
