package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
)

type daybookState int

const (
	daybookStateBrowse daybookState = iota
	daybookStatePeriod
	daybookStateNew
)

type DaybookModel struct {
	CommonModel
	daybookService *daybook.Service

	state   daybookState
	table   table.Model
	entries []*daybook.Entry
	picker  PeriodPicker
	form    *huh.Form

	filter      daybook.ListFilter
	periodLabel string

	loading bool
	err     error
	status  string
}

func NewDaybookModel(svc *daybook.Service) DaybookModel {
	start, end := PeriodThisMonth.Range(time.Now())

	return DaybookModel{
		daybookService: svc,
		picker:         NewPeriodPicker(PeriodThisMonth),
		filter:         daybook.ListFilter{StartDate: start, EndDate: end},
		periodLabel:    PeriodThisMonth.String(),
		loading:        true,
		table: newTable([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Date", Width: 11},
			{Title: "Type", Width: 7},
			{Title: "Amount", Width: 12},
			{Title: "Balance", Width: 12},
			{Title: "Lot", Width: 5},
			{Title: "Description", Width: 30},
		}),
	}
}

func (m DaybookModel) Title() string { return "Day Book" }

func (m DaybookModel) ShortHelp() string {
	switch m.state {
	case daybookStatePeriod:
		return "Enter: select | Esc: cancel"
	case daybookStateNew:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new entry | p: period | c: rechain from selected | r: refresh"
}

func (m DaybookModel) Init() tea.Cmd {
	return m.loadEntriesCmd()
}

func (m DaybookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDaybookMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case PeriodSelectedMsg:
		m.filter.StartDate = msg.Start
		m.filter.EndDate = msg.End
		m.periodLabel = msg.Label
		m.state = daybookStateBrowse
		m.picker.Reset()
		m.table.Focus()

		return m, m.loadEntriesCmd()

	case daybookSaveMsg:
		m.state = daybookStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Entry %d recorded, balance %s.", msg.entry.ID, FormatNullMoney(msg.entry.BalanceAfter))
		}

		return m, m.loadEntriesCmd()

	case rechainMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error rechaining: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Rechained %d entries from #%d.", msg.count, msg.fromID)

		return m, m.loadEntriesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case daybookStatePeriod:
		return m.updatePeriod(msg)
	case daybookStateNew:
		return m.updateNew(msg)
	}

	return m.updateBrowse(msg)
}

func (m DaybookModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadEntriesCmd()
		case "p":
			m.state = daybookStatePeriod
			m.table.Blur()

			return m, nil
		case "n":
			m.form = newEntryForm()
			m.state = daybookStateNew
			m.table.Blur()

			return m, m.form.Init()
		case "c":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.entries) {
				return m, nil
			}

			m.status = "Rechaining..."

			return m, m.rechainCmd(m.entries[idx].ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DaybookModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = daybookStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func newEntryForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Value(new(FormatDate(time.Now()))).
				Validate(func(s string) error {
					_, err := parseDate(s)
					return err
				}),

			huh.NewSelect[daybook.Type]().
				Key("type").
				Title("Type").
				Options(huh.NewOptions(daybook.TypeCredit, daybook.TypeDebit)...),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("description").
				Title("Description"),

			huh.NewInput().
				Key("lot").
				Title("Lot ID").
				Placeholder("optional").
				Validate(func(s string) error {
					_, err := parseOptionalID(s)
					return err
				}),

			huh.NewInput().
				Key("reference").
				Title("Reference").
				CharLimit(50),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m DaybookModel) updateNew(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = daybookStateBrowse
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

	return m, m.createCmd()
}

func (m DaybookModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading day book...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	if m.state == daybookStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Period: [p] "+activeStyle(m.periodLabel)),
		renderTable(m.table),
	)

	if m.state == daybookStateNew && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("New Entry", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DaybookModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			strconv.FormatInt(e.ID, 10),
			FormatDate(e.Date),
			string(e.Type),
			FormatMoney(e.Amount),
			FormatNullMoney(e.BalanceAfter),
			formatOptionalID(e.LotID),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadDaybookMsg struct {
	entries []*daybook.Entry
	err     error
}

func (m DaybookModel) loadEntriesCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.daybookService.List(ctx, filter)

		return loadDaybookMsg{entries: entries, err: err}
	}
}

type daybookSaveMsg struct {
	entry *daybook.Entry
	err   error
}

func (m DaybookModel) createCmd() tea.Cmd {
	form := m.form

	return func() tea.Msg {
		date, err := parseDate(form.GetString("date"))
		if err != nil {
			return daybookSaveMsg{err: err}
		}

		amount, err := parseAmount(form.GetString("amount"))
		if err != nil {
			return daybookSaveMsg{err: err}
		}

		lotID, err := parseOptionalID(form.GetString("lot"))
		if err != nil {
			return daybookSaveMsg{err: err}
		}

		typ, _ := form.Get("type").(daybook.Type)

		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.daybookService.Create(ctx, daybook.CreateParams{
			Date:        date,
			Type:        typ,
			Amount:      amount,
			Description: form.GetString("description"),
			LotID:       lotID,
			Reference:   form.GetString("reference"),
		})

		return daybookSaveMsg{entry: e, err: err}
	}
}

type rechainMsg struct {
	fromID int64
	count  int
	err    error
}

func (m DaybookModel) rechainCmd(fromID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.daybookService.Rechain(ctx, fromID)

		return rechainMsg{fromID: fromID, count: n, err: err}
	}
}
