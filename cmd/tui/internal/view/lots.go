package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/shankh/internal/lot"
	"github.com/MrJamesThe3rd/shankh/internal/report"
)

type lotsState int

const (
	lotsStateBrowse lotsState = iota
	lotsStateEdit
)

var lotStatusFilters = []lot.Status{"", lot.StatusPending, lot.StatusInProgress, lot.StatusCompleted, lot.StatusOnHold}

type LotsModel struct {
	CommonModel
	lotService    *lot.Service
	reportService *report.Service

	state   lotsState
	table   table.Model
	lots    []*lot.Lot
	form    *huh.Form
	summary *report.LotSummary

	statusFilterIdx int

	loading bool
	err     error
	status  string

	formStatus lot.Status
	formStage  string
	formNotes  string
}

func NewLotsModel(lotSvc *lot.Service, reportSvc *report.Service) LotsModel {
	return LotsModel{
		lotService:    lotSvc,
		reportService: reportSvc,
		loading:       true,
		table: newTable([]table.Column{
			{Title: "Lot", Width: 6},
			{Title: "Order", Width: 6},
			{Title: "Status", Width: 12},
			{Title: "Progress", Width: 9},
			{Title: "Total Cost", Width: 12},
			{Title: "Stage", Width: 20},
			{Title: "Start", Width: 11},
		}),
	}
}

func (m LotsModel) Title() string { return "Lots" }

func (m LotsModel) ShortHelp() string {
	if m.state == lotsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: summary | e: edit | s: status filter | r: refresh"
}

func (m LotsModel) Init() tea.Cmd {
	return m.loadLotsCmd()
}

func (m LotsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLotsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.lots = msg.lots
		m.summary = nil
		m.refreshTable()

		return m, nil

	case lotSummaryMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading summary: %v", msg.err)
			return m, nil
		}

		m.summary = msg.summary

		return m, nil

	case lotSaveMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = lotsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadLotsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == lotsStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m LotsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadLotsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(lotStatusFilters)
			return m, m.loadLotsCmd()
		case "enter":
			if l := m.selected(); l != nil {
				return m, m.loadSummaryCmd(l.ID)
			}

			return m, nil
		case "e":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LotsModel) selected() *lot.Lot {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lots) {
		return nil
	}

	return m.lots[idx]
}

func (m LotsModel) enterEditMode() (tea.Model, tea.Cmd) {
	l := m.selected()
	if l == nil {
		return m, nil
	}

	m.formStatus = l.Status
	m.formStage = l.CurrentStage
	m.formNotes = l.Notes

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[lot.Status]().
				Key("status").
				Title("Status").
				Options(huh.NewOptions(lotStatusFilters[1:]...)...).
				Value(&m.formStatus),

			huh.NewInput().
				Key("stage").
				Title("Current Stage").
				CharLimit(50).
				Value(&m.formStage),

			huh.NewText().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = lotsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m LotsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = lotsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m LotsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading lots...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	filter := "All"
	if s := lotStatusFilters[m.statusFilterIdx]; s != "" {
		filter = string(s)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Filter: [s] Status: "+activeStyle(filter)),
		renderTable(m.table),
	)

	switch {
	case m.state == lotsStateEdit && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Edit Lot", m.form.View()))
	case m.summary != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(
			fmt.Sprintf("Lot %d Summary", m.summary.LotID), summaryBody(m.summary)))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func summaryBody(s *report.LotSummary) string {
	return fmt.Sprintf(
		"Units produced:  %d\nHours worked:    %s\n\nLabor:           %s\nMaterials:       %s\nOther expenses:  %s\nTotal cost:      %s\n\nPayments:        %s\nBalance:         %s\n\nDay book debit:  %s\nDay book credit: %s",
		s.UnitsProduced,
		s.HoursWorked.StringFixed(2),
		FormatMoney(s.LaborCost),
		FormatMoney(s.MaterialCost),
		FormatMoney(s.OtherExpenses),
		FormatMoney(s.TotalCost),
		FormatMoney(s.TotalPayments),
		FormatMoney(s.Balance),
		FormatMoney(s.DaybookDebit),
		FormatMoney(s.DaybookCredit),
	)
}

func (m *LotsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.lots))
	for _, l := range m.lots {
		rows = append(rows, table.Row{
			strconv.FormatInt(l.ID, 10),
			strconv.FormatInt(l.OrderID, 10),
			string(l.Status),
			fmt.Sprintf("%d%%", l.ProgressPercent),
			FormatNullMoney(l.TotalCost),
			l.CurrentStage,
			formatOptionalDate(l.StartDate),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadLotsMsg struct {
	lots []*lot.Lot
	err  error
}

func (m LotsModel) loadLotsCmd() tea.Cmd {
	filter := lot.ListFilter{}
	if s := lotStatusFilters[m.statusFilterIdx]; s != "" {
		filter.Status = &s
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		lots, err := m.lotService.List(ctx, filter)

		return loadLotsMsg{lots: lots, err: err}
	}
}

type lotSummaryMsg struct {
	summary *report.LotSummary
	err     error
}

func (m LotsModel) loadSummaryCmd(lotID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.reportService.LotSummary(ctx, lotID)

		return lotSummaryMsg{summary: s, err: err}
	}
}

type lotSaveMsg struct {
	err error
}

func (m LotsModel) saveCmd() tea.Cmd {
	l := m.selected()
	if l == nil {
		return nil
	}

	// Read from the form: its bound fields belong to an earlier copy of the model.
	updated := *l
	if status, ok := m.form.Get("status").(lot.Status); ok {
		updated.Status = status
	}

	updated.CurrentStage = m.form.GetString("stage")
	updated.Notes = m.form.GetString("notes")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return lotSaveMsg{err: m.lotService.Update(ctx, &updated)}
	}
}
