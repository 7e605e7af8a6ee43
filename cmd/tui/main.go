package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/shankh/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/shankh/internal/config"
	"github.com/MrJamesThe3rd/shankh/internal/database"
	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	daybookStore "github.com/MrJamesThe3rd/shankh/internal/daybook/store"
	"github.com/MrJamesThe3rd/shankh/internal/export"
	"github.com/MrJamesThe3rd/shankh/internal/importer"
	"github.com/MrJamesThe3rd/shankh/internal/importer/daybookcsv"
	"github.com/MrJamesThe3rd/shankh/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/shankh/internal/ledger/store"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/logging"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
	lotStore "github.com/MrJamesThe3rd/shankh/internal/lot/store"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
	"github.com/MrJamesThe3rd/shankh/internal/report"
	reportStore "github.com/MrJamesThe3rd/shankh/internal/report/store"
)

type model struct {
	lotService     *lot.Service
	daybookService *daybook.Service
	ledgerService  *ledger.Service
	reportService  *report.Service
	importService  *importer.Service
	exportService  *export.Service

	currentView View
	active      view.View
}

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewLots
	ViewDaybook
	ViewPayments
	ViewImport
	ViewExport
)

func (m model) open(v View) view.View {
	switch v {
	case ViewDashboard:
		return view.NewDashboardModel(m.reportService)
	case ViewLots:
		return view.NewLotsModel(m.lotService, m.reportService)
	case ViewDaybook:
		return view.NewDaybookModel(m.daybookService)
	case ViewPayments:
		return view.NewPaymentsModel(m.ledgerService)
	case ViewImport:
		return view.NewImportModel(m.importService)
	case ViewExport:
		return view.NewExportModel(m.exportService)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1", "2", "3", "4", "5", "6":
				m.currentView = View(msg.String()[0] - '0')
				m.active = m.open(m.currentView)

				return m, m.active.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	m.active = next.(view.View)

	return m, cmd
}

func (m model) View() string {
	if m.currentView == ViewMenu || m.active == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"Shankh Workshop\n\n" +
				"1. Dashboard\n" +
				"2. Lots\n" +
				"3. Day Book\n" +
				"4. Payments\n" +
				"5. Import Day Book CSV\n" +
				"6. Export\n\n" +
				"q. Quit",
		)
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.active.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(m.active.Title()),
		m.active.View(),
		help,
	)
}

func initialModel(ctx context.Context) (model, func()) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file when one is configured.
	var logOut io.Writer = io.Discard
	if cfg.Log.TUIFile != "" {
		if f, err := os.OpenFile(cfg.Log.TUIFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logOut = f
		}
	}

	slog.SetDefault(logging.New(logOut, cfg.Log.Format, cfg.Log.Level))

	locker, closeLocker := lock.FromConfig(ctx, cfg, nil)
	engine := recompute.NewEngine(recompute.WithLogger(slog.Default()), recompute.WithLocation(cfg.Location()))

	daybookSvc := daybook.NewService(daybookStore.New(db), engine, locker)
	lotSvc := lot.NewService(lotStore.New(db), engine, locker)
	ledgerSvc := ledger.NewService(ledgerStore.New(db), engine, locker)

	m := model{
		lotService:     lotSvc,
		daybookService: daybookSvc,
		ledgerService:  ledgerSvc,
		reportService:  report.NewService(reportStore.New(db)),
		importService:  importer.NewService(daybookcsv.NewParser(), daybookSvc),
		exportService:  export.NewService(daybookSvc, ledgerSvc, lotSvc),
		currentView:    ViewMenu,
	}

	return m, func() {
		closeLocker()
		db.Close()
	}
}

func main() {
	m, cleanup := initialModel(context.Background())
	defer cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
