package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/shankh/internal/report"
)

type DashboardModel struct {
	CommonModel
	reportService *report.Service

	stats    *report.DashboardStats
	statuses []report.StatusCount
	workers  []report.WorkerOutput
	usage    []report.MaterialUsage
	months   []report.MonthFigures
	recent   []report.Activity

	loading bool
	err     error
}

func NewDashboardModel(svc *report.Service) DashboardModel {
	return DashboardModel{reportService: svc, loading: true}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.stats = msg.stats
			m.statuses = msg.statuses
			m.workers = msg.workers
			m.usage = msg.usage
			m.months = msg.months
			m.recent = msg.recent
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

var cardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	MarginRight(1).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63"))

func card(label, value string) string {
	return cardStyle.Render(lipgloss.NewStyle().Faint(true).Render(label) + "\n" + activeStyle(value))
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	s := m.stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Clients", fmt.Sprint(s.TotalClients)),
		card("Active orders", fmt.Sprint(s.ActiveOrders)),
		card("Ongoing lots", fmt.Sprint(s.OngoingLots)),
		card("Revenue (year)", FormatMoney(s.Revenue)),
		card("Overdue", fmt.Sprint(s.OverduePayments)),
		card("Avg units", s.AvgUnitsPerWorker.StringFixed(1)),
	)

	var statuses strings.Builder
	for _, c := range m.statuses {
		fmt.Fprintf(&statuses, "%-12s %d\n", c.Status, c.Count)
	}

	var workers strings.Builder
	for _, w := range m.workers {
		fmt.Fprintf(&workers, "%-18s %6d units  %5s\n", w.Name, w.UnitsProduced, w.Efficiency.StringFixed(1))
	}

	var usage strings.Builder
	for _, u := range m.usage {
		fmt.Fprintf(&usage, "%-18s %10s  %12s\n", u.Material, u.Used.StringFixed(2), FormatMoney(u.TotalCost))
	}

	sections := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Lots by status\n\n"+statuses.String()),
		cardStyle.Render("Worker output\n\n"+workers.String()),
		cardStyle.Render("Material usage\n\n"+usage.String()),
	)

	var months strings.Builder
	for _, mf := range m.months {
		fmt.Fprintf(&months, "%s  %3d orders  %3d lots  %12s in  %12s out\n",
			mf.Month.String()[:3], mf.Orders, mf.Lots, FormatMoney(mf.Revenue), FormatMoney(mf.Expenses))
	}

	var recent strings.Builder
	for _, a := range m.recent {
		line := fmt.Sprintf("%s  %s", FormatDate(a.At), a.Title)
		if a.Subtitle != "" {
			line += " - " + a.Subtitle
		}

		if a.Amount.Valid {
			line += "  " + FormatMoney(a.Amount.Decimal)
		}

		recent.WriteString(line + "\n")
	}

	history := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("This year\n\n"+months.String()),
		cardStyle.Render("Recent activity\n\n"+recent.String()),
	)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, cards, "", sections, "", history))
}

type dashboardMsg struct {
	stats    *report.DashboardStats
	statuses []report.StatusCount
	workers  []report.WorkerOutput
	usage    []report.MaterialUsage
	months   []report.MonthFigures
	recent   []report.Activity
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			msg dashboardMsg
			err error
		)

		if msg.stats, err = m.reportService.DashboardStats(ctx); err != nil {
			return dashboardMsg{err: err}
		}

		if msg.statuses, err = m.reportService.LotStatusBreakdown(ctx); err != nil {
			return dashboardMsg{err: err}
		}

		if msg.workers, err = m.reportService.WorkerProductivity(ctx); err != nil {
			return dashboardMsg{err: err}
		}

		if msg.usage, err = m.reportService.InventoryUsage(ctx); err != nil {
			return dashboardMsg{err: err}
		}

		if msg.months, err = m.reportService.MonthlyData(ctx); err != nil {
			return dashboardMsg{err: err}
		}

		if msg.recent, err = m.reportService.RecentActivities(ctx); err != nil {
			return dashboardMsg{err: err}
		}

		return msg
	}
}
