package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/assignment"
	"github.com/MrJamesThe3rd/shankh/internal/client"
	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/expense"
	"github.com/MrJamesThe3rd/shankh/internal/export"
	shankhHttp "github.com/MrJamesThe3rd/shankh/internal/http"
	assignmentHandler "github.com/MrJamesThe3rd/shankh/internal/http/assignment"
	clientHandler "github.com/MrJamesThe3rd/shankh/internal/http/client"
	daybookHandler "github.com/MrJamesThe3rd/shankh/internal/http/daybook"
	expenseHandler "github.com/MrJamesThe3rd/shankh/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/shankh/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/shankh/internal/http/importcsv"
	inventoryHandler "github.com/MrJamesThe3rd/shankh/internal/http/inventory"
	lotHandler "github.com/MrJamesThe3rd/shankh/internal/http/lot"
	orderHandler "github.com/MrJamesThe3rd/shankh/internal/http/order"
	paymentHandler "github.com/MrJamesThe3rd/shankh/internal/http/payment"
	reportHandler "github.com/MrJamesThe3rd/shankh/internal/http/report"
	workerHandler "github.com/MrJamesThe3rd/shankh/internal/http/worker"
	"github.com/MrJamesThe3rd/shankh/internal/importer"
	"github.com/MrJamesThe3rd/shankh/internal/importer/daybookcsv"
	"github.com/MrJamesThe3rd/shankh/internal/inventory"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
	"github.com/MrJamesThe3rd/shankh/internal/metrics"
	"github.com/MrJamesThe3rd/shankh/internal/order"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
	"github.com/MrJamesThe3rd/shankh/internal/report"
	"github.com/MrJamesThe3rd/shankh/internal/worker"
)

type server struct {
	handler       http.Handler
	lots          *lot.MockRepository
	lotTx         *lot.MockTx
	lotEngine     *lot.MockRecomputer
	daybook       *daybook.MockRepository
	daybookTx     *daybook.MockTx
	daybookEngine *daybook.MockRecomputer
	payments      *ledger.MockRepository
	paymentTx     *ledger.MockTx
	paymentEngine *ledger.MockRecomputer
	reports       *report.MockRepository
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) {
	return nil, lock.ErrBusy
}

func newServer(t *testing.T, locker lock.Locker) *server {
	t.Helper()

	ctrl := gomock.NewController(t)
	s := &server{
		lots:          lot.NewMockRepository(ctrl),
		lotTx:         lot.NewMockTx(ctrl),
		lotEngine:     lot.NewMockRecomputer(ctrl),
		daybook:       daybook.NewMockRepository(ctrl),
		daybookTx:     daybook.NewMockTx(ctrl),
		daybookEngine: daybook.NewMockRecomputer(ctrl),
		payments:      ledger.NewMockRepository(ctrl),
		paymentTx:     ledger.NewMockTx(ctrl),
		paymentEngine: ledger.NewMockRecomputer(ctrl),
		reports:       report.NewMockRepository(ctrl),
	}

	s.daybookTx.EXPECT().Rollback().Return(nil).AnyTimes()
	s.daybookTx.EXPECT().Queries().Return(nil).AnyTimes()
	s.lotTx.EXPECT().Rollback().Return(nil).AnyTimes()
	s.lotTx.EXPECT().Queries().Return(nil).AnyTimes()
	s.paymentTx.EXPECT().Rollback().Return(nil).AnyTimes()
	s.paymentTx.EXPECT().Queries().Return(nil).AnyTimes()

	var (
		lotService     = lot.NewService(s.lots, s.lotEngine, locker)
		daybookService = daybook.NewService(s.daybook, s.daybookEngine, locker)
		ledgerService  = ledger.NewService(s.payments, s.paymentEngine, locker)
		reportService  = report.NewService(s.reports)
		importService  = importer.NewService(daybookcsv.NewParser(), daybookService)
		exportService  = export.NewService(daybookService, ledgerService, lotService)
	)

	s.handler = shankhHttp.New(shankhHttp.Handlers{
		Clients:     clientHandler.NewHandler(client.NewService(client.NewMockRepository(ctrl))),
		Orders:      orderHandler.NewHandler(order.NewService(order.NewMockRepository(ctrl))),
		Workers:     workerHandler.NewHandler(worker.NewService(worker.NewMockRepository(ctrl))),
		Lots:        lotHandler.NewHandler(lotService),
		Assignments: assignmentHandler.NewHandler(assignment.NewService(assignment.NewMockRepository(ctrl), assignment.NewMockRecomputer(ctrl), locker)),
		Inventory:   inventoryHandler.NewHandler(inventory.NewService(inventory.NewMockRepository(ctrl), inventory.NewMockRecomputer(ctrl), locker)),
		Expenses:    expenseHandler.NewHandler(expense.NewService(expense.NewMockRepository(ctrl), expense.NewMockRecomputer(ctrl), locker)),
		Payments:    paymentHandler.NewHandler(ledgerService),
		Daybook:     daybookHandler.NewHandler(daybookService),
		Import:      importHandler.NewHandler(importService),
		Export:      exportHandler.NewHandler(exportService),
		Reports:     reportHandler.NewHandler(reportService),
	}, shankhHttp.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		RateLimit:      1000,
		Metrics:        metrics.New(),
	})

	return s
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestRouter_HealthAndSecurityHeaders(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouter_LotErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        func() *http.Request
		setupMock  func(s *server)
		wantStatus int
	}{
		{
			name: "not found",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/v1/lots/7", nil)
			},
			setupMock: func(s *server) {
				s.lots.EXPECT().Get(gomock.Any(), int64(7)).Return(nil, lot.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "bad id",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/v1/lots/abc", nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing order",
			req: func() *http.Request {
				return jsonRequest(http.MethodPost, "/api/v1/lots", `{"notes":"rush"}`)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "derived field rejected on update",
			req: func() *http.Request {
				return jsonRequest(http.MethodPatch, "/api/v1/lots/7", `{"total_cost":"10"}`)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong content type",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/lots", strings.NewReader("order_id=1"))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

				return req
			},
			wantStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, lock.NewLocal(nil))
			if tt.setupMock != nil {
				tt.setupMock(s)
			}

			rec := s.do(tt.req())
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_CreateReplacesDerivedFields(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		body      string
		setupMock func(s *server)
		want      map[string]any
	}{
		{
			name:   "lot cost and progress",
			target: "/api/v1/lots",
			body:   `{"order_id":1,"total_cost":"999","progress_percent":80}`,
			setupMock: func(s *server) {
				s.lots.EXPECT().Begin(gomock.Any()).Return(s.lotTx, nil)
				s.lotTx.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, l *lot.Lot) error {
						assert.False(t, l.TotalCost.Valid)
						assert.Zero(t, l.ProgressPercent)
						l.ID = 4
						return nil
					})
				s.lotEngine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				s.lotTx.EXPECT().Get(gomock.Any(), int64(4)).Return(&lot.Lot{
					ID:        4,
					OrderID:   1,
					Status:    lot.StatusPending,
					TotalCost: decimal.NewNullDecimal(decimal.Zero),
				}, nil)
				s.lotTx.EXPECT().Commit().Return(nil)
			},
			want: map[string]any{"total_cost": "0", "progress_percent": float64(0)},
		},
		{
			name:   "payment balance and status",
			target: "/api/v1/payments",
			body: `{"lot_id":2,"client_id":3,"payment_date":"2024-03-01","amount_paid":"60",` +
				`"balance_remaining":"0","payment_status":"Paid","invoice_number":"MINE-1"}`,
			setupMock: func(s *server) {
				s.payments.EXPECT().Begin(gomock.Any()).Return(s.paymentTx, nil)
				s.paymentTx.EXPECT().InvoiceExists(gomock.Any(), gomock.Any()).Return(false, nil)
				s.paymentTx.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *ledger.Payment) error {
						assert.False(t, p.BalanceRemaining.Valid)
						assert.Equal(t, ledger.StatusPending, p.Status)
						assert.NotEqual(t, "MINE-1", p.InvoiceNumber)
						p.ID = 8
						return nil
					})
				s.paymentEngine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				s.paymentTx.EXPECT().Get(gomock.Any(), int64(8)).Return(&ledger.Payment{
					ID:               8,
					LotID:            2,
					ClientID:         3,
					PaymentDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
					AmountPaid:       decimal.NewFromInt(60),
					TotalDue:         decimal.NewNullDecimal(decimal.NewFromInt(100)),
					BalanceRemaining: decimal.NewNullDecimal(decimal.NewFromInt(40)),
					Status:           ledger.StatusPartial,
					InvoiceNumber:    "INV-2-2024",
				}, nil)
				s.paymentTx.EXPECT().Commit().Return(nil)
			},
			want: map[string]any{"balance_remaining": "40", "payment_status": "Partial", "invoice_number": "INV-2-2024"},
		},
		{
			name:   "day book running balance",
			target: "/api/v1/day-book",
			body:   `{"transaction_date":"2024-01-06","transaction_type":"Debit","amount":"30","balance_after_transaction":"999"}`,
			setupMock: func(s *server) {
				s.daybook.EXPECT().Begin(gomock.Any()).Return(s.daybookTx, nil)
				s.daybookTx.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *daybook.Entry) error {
						assert.False(t, e.BalanceAfter.Valid)
						e.ID = 2
						return nil
					})
				s.daybookEngine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				s.daybookTx.EXPECT().Get(gomock.Any(), int64(2)).Return(&daybook.Entry{
					ID:           2,
					Date:         time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
					Type:         daybook.TypeDebit,
					Amount:       decimal.NewFromInt(30),
					BalanceAfter: decimal.NewNullDecimal(decimal.NewFromInt(70)),
				}, nil)
				s.daybookTx.EXPECT().Commit().Return(nil)
			},
			want: map[string]any{"balance_after_transaction": "70"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, lock.NewLocal(nil))
			tt.setupMock(s)

			rec := s.do(jsonRequest(http.MethodPost, tt.target, tt.body))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

			for key, want := range tt.want {
				assert.Equal(t, want, got[key], key)
			}
		})
	}
}

func TestRouter_DaybookRejectsZeroAmount(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	rec := s.do(jsonRequest(http.MethodPost, "/api/v1/day-book",
		`{"transaction_date":"2024-01-06","transaction_type":"Credit","amount":"0"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestRouter_DaybookRechain(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.daybook.EXPECT().Begin(gomock.Any()).Return(s.daybookTx, nil)
	s.daybookEngine.EXPECT().RechainDaybook(gomock.Any(), gomock.Any(), int64(5)).Return(3, nil)
	s.daybookTx.EXPECT().Commit().Return(nil)

	rec := s.do(jsonRequest(http.MethodPost, "/api/v1/day-book/rechain", `{"from_id":5}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"rechained":3}`, rec.Body.String())
}

func TestRouter_LockBusy(t *testing.T) {
	s := newServer(t, busyLocker{})

	rec := s.do(jsonRequest(http.MethodPost, "/api/v1/day-book/rechain", `{"from_id":0}`))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRouter_PaymentStatusFilter(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.payments.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f ledger.ListFilter) ([]*ledger.Payment, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, ledger.StatusOverdue, *f.Status)

			return []*ledger.Payment{{
				ID:               1,
				LotID:            2,
				ClientID:         3,
				PaymentDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				AmountPaid:       decimal.RequireFromString("40.00"),
				BalanceRemaining: decimal.NewNullDecimal(decimal.RequireFromString("60.00")),
				Status:           ledger.StatusOverdue,
				InvoiceNumber:    "INV-2-2024",
			}}, nil
		})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/payments?status=Overdue", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Overdue", got[0]["payment_status"])
	assert.Equal(t, "60", got[0]["balance_remaining"])
	assert.Equal(t, "2024-03-01", got[0]["payment_date"])
	assert.Nil(t, got[0]["total_due"])
}

func TestRouter_LotSummary(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.reports.EXPECT().LotExists(gomock.Any(), int64(4)).Return(nil)
	s.reports.EXPECT().LotLabor(gomock.Any(), int64(4)).Return(report.Labor{
		UnitsProduced: 50,
		HoursWorked:   decimal.NewFromInt(10),
		Cost:          decimal.NewFromInt(200),
	}, nil)
	s.reports.EXPECT().LotMaterialCost(gomock.Any(), int64(4)).Return(decimal.NewFromInt(100), nil)
	s.reports.EXPECT().LotExpenseTotal(gomock.Any(), int64(4)).Return(decimal.NewFromInt(25), nil)
	s.reports.EXPECT().LotPaymentTotal(gomock.Any(), int64(4)).Return(decimal.NewFromInt(300), nil)
	s.reports.EXPECT().LotCashTotals(gomock.Any(), int64(4)).Return(report.CashTotals{}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/lots/4/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "325", got["total_cost"])
	assert.Equal(t, "-25", got["balance"])
}

func TestRouter_LotSummaryNotFound(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.reports.EXPECT().LotExists(gomock.Any(), int64(4)).Return(report.ErrNotFound)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/lots/4/summary", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RecentActivities(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.reports.EXPECT().RecentCompletedLots(gomock.Any(), gomock.Any()).Return([]report.Activity{
		{RefID: 7, Subtitle: "blue kurta", At: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)},
	}, nil)
	s.reports.EXPECT().RecentPayments(gomock.Any(), gomock.Any()).Return([]report.Activity{
		{RefID: 31, Subtitle: "Asha", Amount: decimal.NewNullDecimal(decimal.NewFromInt(1200)), At: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)},
	}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/recent-activities", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[
		{"type":"lot_completed","ref_id":7,"title":"Lot #7 completed","subtitle":"blue kurta","amount":null,"timestamp":"2024-05-10T09:00:00Z"},
		{"type":"payment_received","ref_id":31,"title":"Payment received","subtitle":"Asha","amount":"1200","timestamp":"2024-05-05T00:00:00Z"}
	]`, rec.Body.String())
}

func multipartUpload(t *testing.T, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "daybook.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/day-book", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestRouter_ImportDaybook(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.daybook.EXPECT().Begin(gomock.Any()).Return(s.daybookTx, nil)
	s.daybookTx.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *daybook.Entry) error {
			e.ID = 11
			return nil
		})
	s.daybookEngine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpCreate, ID: 11}).
		Return(nil)
	s.daybookTx.EXPECT().Get(gomock.Any(), int64(11)).Return(&daybook.Entry{ID: 11}, nil)
	s.daybookTx.EXPECT().Commit().Return(nil)

	rec := s.do(multipartUpload(t, "date,transaction_type,amount\n2024-01-05,Credit,100\n"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"profile":"day book","charset":"UTF-8","imported":1,"first_id":11,"last_id":11}`, rec.Body.String())
}

func TestRouter_ImportDaybookRejectsBadDate(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	rec := s.do(multipartUpload(t, "date,transaction_type,amount\n2024-01-05,Credit,100\n2024-13-45,Debit,30\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `row 3: invalid date`)
}

func TestRouter_ImportDaybookRejectsUnknownLayout(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	rec := s.do(multipartUpload(t, "foo,bar\n1,2\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid day book csv")
}

func TestRouter_Export(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	s.lots.EXPECT().List(gomock.Any(), lot.ListFilter{}).Return([]*lot.Lot{{
		ID:              1,
		OrderID:         2,
		Status:          lot.StatusInProgress,
		TotalCost:       decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		ProgressPercent: 40,
	}}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/export/lot?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="lot-\d{8}-[0-9a-f]{8}\.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "12.50")
}

func TestRouter_ExportErrors(t *testing.T) {
	s := newServer(t, lock.NewLocal(nil))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/export/workers", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/export/lot?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
