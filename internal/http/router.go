package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/MrJamesThe3rd/shankh/internal/http/assignment"
	"github.com/MrJamesThe3rd/shankh/internal/http/client"
	"github.com/MrJamesThe3rd/shankh/internal/http/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/http/expense"
	"github.com/MrJamesThe3rd/shankh/internal/http/export"
	"github.com/MrJamesThe3rd/shankh/internal/http/importcsv"
	"github.com/MrJamesThe3rd/shankh/internal/http/inventory"
	"github.com/MrJamesThe3rd/shankh/internal/http/lot"
	"github.com/MrJamesThe3rd/shankh/internal/http/order"
	"github.com/MrJamesThe3rd/shankh/internal/http/payment"
	"github.com/MrJamesThe3rd/shankh/internal/http/report"
	"github.com/MrJamesThe3rd/shankh/internal/http/worker"
	"github.com/MrJamesThe3rd/shankh/internal/metrics"
)

type Handlers struct {
	Clients     *client.Handler
	Orders      *order.Handler
	Workers     *worker.Handler
	Lots        *lot.Handler
	Assignments *assignment.Handler
	Inventory   *inventory.Handler
	Expenses    *expense.Handler
	Payments    *payment.Handler
	Daybook     *daybook.Handler
	Import      *importcsv.Handler
	Export      *export.Handler
	Reports     *report.Handler
}

type Options struct {
	AllowedOrigins []string
	// RateLimit is requests per minute per client IP. Zero disables limiting.
	RateLimit  int
	Production bool
	Metrics    *metrics.Metrics
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        opts.Production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(opts.Metrics.Middleware)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secureMiddleware.Process(w, r); err != nil {
				slog.Warn("secure headers blocked request", "error", err)
				return
			}

			next.ServeHTTP(w, r)
		})
	})
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", opts.Metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.Limit(opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/clients", func(r chi.Router) {
				h.Clients.Routes(r)
				r.Get("/{id}/balance", h.Reports.ClientBalance)
			})
			r.Route("/orders", h.Orders.Routes)
			r.Route("/workers", h.Workers.Routes)
			r.Route("/lots", func(r chi.Router) {
				h.Lots.Routes(r)
				r.Get("/{id}/summary", h.Reports.LotSummary)
			})
			r.Route("/lot-workers", h.Assignments.Routes)
			r.Route("/inventory", h.Inventory.Routes)
			r.Route("/expenses", h.Expenses.Routes)
			r.Route("/payments", h.Payments.Routes)
			r.Route("/day-book", h.Daybook.Routes)
			r.Route("/dashboard", h.Reports.Routes)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
