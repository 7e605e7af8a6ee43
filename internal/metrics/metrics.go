package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API and the recomputation engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	recomputeTotal    *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	lockWait          *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shankh_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shankh_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shankh_recompute_total",
		Help: "Derived value recomputations by rule and outcome.",
	}, []string{"rule", "outcome"})
	recomputeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shankh_recompute_duration_seconds",
		Help:    "Time spent in a single recomputation rule.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"rule"})
	lockWait := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shankh_lock_wait_seconds",
		Help:    "Time spent waiting for an aggregate lock.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	registry.MustRegister(requests, duration, recomputes, recomputeDuration, lockWait)

	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		recomputeTotal:    recomputes,
		recomputeDuration: recomputeDuration,
		lockWait:          lockWait,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}

	return m.handler
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(&recorder, r)

		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRecompute records one run of a recomputation rule. Outcome is "ok", "not_found" or "error".
func (m *Metrics) ObserveRecompute(rule, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.recomputeTotal.WithLabelValues(rule, outcome).Inc()
	m.recomputeDuration.WithLabelValues(rule).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLockWait(backend string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.lockWait.WithLabelValues(backend).Observe(elapsed.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return "unknown"
}
