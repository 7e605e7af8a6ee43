package httpx_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
)

type payload struct {
	Name   string          `json:"name" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Date   httpx.Date      `json:"date" validate:"required"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"thread","amount":"12.50","date":"2024-01-05"}`},
		{name: "numeric amount", body: `{"name":"thread","amount":12.5,"date":"2024-01-05"}`},
		{name: "missing name", body: `{"amount":"1","date":"2024-01-05"}`, wantErr: "Name failed on required"},
		{name: "zero amount", body: `{"name":"x","amount":"0","date":"2024-01-05"}`, wantErr: "Amount failed on gt"},
		{name: "bad date", body: `{"name":"x","amount":"1","date":"05/01/2024"}`, wantErr: "YYYY-MM-DD"},
		{name: "unknown field", body: `{"name":"x","amount":"1","date":"2024-01-05","extra":1}`, wantErr: "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var p payload

			err := httpx.Decode(r, &p)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, httpx.ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "2024-01-05", p.Date.Format("2006-01-02"))
		})
	}
}

func TestError(t *testing.T) {
	errMissing := errors.New("lot not found")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "registered not found", err: fmt.Errorf("loading: %w", errMissing), want: http.StatusNotFound},
		{name: "validation", err: fmt.Errorf("%w: bad", httpx.ErrValidation), want: http.StatusBadRequest},
		{name: "busy lock", err: lock.ErrBusy, want: http.StatusServiceUnavailable},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "client_ledger_invoice_number_key"}, want: http.StatusConflict},
		{name: "foreign key violation", err: fmt.Errorf("creating: %w", &pgconn.PgError{Code: "23503"}), want: http.StatusBadRequest},
		{name: "anything else", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpx.Error(rec, tt.err, errMissing)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	d := httpx.Date{}
	require.NoError(t, d.UnmarshalJSON([]byte(`"2024-02-29"`)))

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-29"`, string(b))
}
