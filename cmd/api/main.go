package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/shankh/internal/assignment"
	assignmentStore "github.com/MrJamesThe3rd/shankh/internal/assignment/store"
	"github.com/MrJamesThe3rd/shankh/internal/client"
	clientStore "github.com/MrJamesThe3rd/shankh/internal/client/store"
	"github.com/MrJamesThe3rd/shankh/internal/config"
	"github.com/MrJamesThe3rd/shankh/internal/database"
	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	daybookStore "github.com/MrJamesThe3rd/shankh/internal/daybook/store"
	"github.com/MrJamesThe3rd/shankh/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/shankh/internal/expense/store"
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
	inventoryStore "github.com/MrJamesThe3rd/shankh/internal/inventory/store"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/shankh/internal/ledger/store"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/logging"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
	lotStore "github.com/MrJamesThe3rd/shankh/internal/lot/store"
	"github.com/MrJamesThe3rd/shankh/internal/metrics"
	"github.com/MrJamesThe3rd/shankh/internal/order"
	orderStore "github.com/MrJamesThe3rd/shankh/internal/order/store"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
	"github.com/MrJamesThe3rd/shankh/internal/report"
	reportStore "github.com/MrJamesThe3rd/shankh/internal/report/store"
	"github.com/MrJamesThe3rd/shankh/internal/worker"
	workerStore "github.com/MrJamesThe3rd/shankh/internal/worker/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	m := metrics.New()

	locker, closeLocker := lock.FromConfig(ctx, cfg, m)
	defer closeLocker()

	engine := recompute.NewEngine(
		recompute.WithLogger(slog.Default()),
		recompute.WithMetrics(m),
		recompute.WithLocation(cfg.Location()),
	)

	var (
		clientService     = client.NewService(clientStore.New(db))
		orderService      = order.NewService(orderStore.New(db))
		workerService     = worker.NewService(workerStore.New(db))
		lotService        = lot.NewService(lotStore.New(db), engine, locker)
		assignmentService = assignment.NewService(assignmentStore.New(db), engine, locker)
		inventoryService  = inventory.NewService(inventoryStore.New(db), engine, locker)
		expenseService    = expense.NewService(expenseStore.New(db), engine, locker)
		ledgerService     = ledger.NewService(ledgerStore.New(db), engine, locker)
		daybookService    = daybook.NewService(daybookStore.New(db), engine, locker)
		importService     = importer.NewService(daybookcsv.NewParser(), daybookService)
		exportService     = export.NewService(daybookService, ledgerService, lotService)
		reportService     = report.NewService(reportStore.New(db))
	)

	router := shankhHttp.New(shankhHttp.Handlers{
		Clients:     clientHandler.NewHandler(clientService),
		Orders:      orderHandler.NewHandler(orderService),
		Workers:     workerHandler.NewHandler(workerService),
		Lots:        lotHandler.NewHandler(lotService),
		Assignments: assignmentHandler.NewHandler(assignmentService),
		Inventory:   inventoryHandler.NewHandler(inventoryService),
		Expenses:    expenseHandler.NewHandler(expenseService),
		Payments:    paymentHandler.NewHandler(ledgerService),
		Daybook:     daybookHandler.NewHandler(daybookService),
		Import:      importHandler.NewHandler(importService),
		Export:      exportHandler.NewHandler(exportService),
		Reports:     reportHandler.NewHandler(reportService),
	}, shankhHttp.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      cfg.HTTP.RateLimit,
		Production:     cfg.IsProduction(),
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
