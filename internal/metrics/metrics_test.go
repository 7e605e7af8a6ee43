package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shankh/internal/metrics"
)

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/lots/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/lots/4", nil))
	m.ObserveRecompute("lot_cost", "ok", 2*time.Millisecond)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shankh_http_requests_total{code="418",route="/lots/{id}"} 1`)
	assert.Contains(t, string(body), `shankh_recompute_total{outcome="ok",rule="lot_cost"} 1`)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *metrics.Metrics

	m.ObserveRecompute("lot_cost", "ok", time.Millisecond)
	m.ObserveLockWait("local", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
