package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/ledger"
)

type paymentsState int

const (
	paymentsStateBrowse paymentsState = iota
	paymentsStateNew
)

var paymentStatusFilters = []ledger.Status{"", ledger.StatusPending, ledger.StatusPartial, ledger.StatusPaid, ledger.StatusOverdue}

type PaymentsModel struct {
	CommonModel
	ledgerService *ledger.Service

	state    paymentsState
	table    table.Model
	payments []*ledger.Payment
	form     *huh.Form

	statusFilterIdx int

	loading bool
	err     error
	status  string
}

func NewPaymentsModel(svc *ledger.Service) PaymentsModel {
	return PaymentsModel{
		ledgerService: svc,
		loading:       true,
		table: newTable([]table.Column{
			{Title: "Invoice", Width: 22},
			{Title: "Lot", Width: 5},
			{Title: "Client", Width: 6},
			{Title: "Date", Width: 11},
			{Title: "Paid", Width: 12},
			{Title: "Remaining", Width: 12},
			{Title: "Status", Width: 8},
		}),
	}
}

func (m PaymentsModel) Title() string { return "Payments" }

func (m PaymentsModel) ShortHelp() string {
	if m.state == paymentsStateNew {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: record payment | s: status filter | r: refresh"
}

func (m PaymentsModel) Init() tea.Cmd {
	return m.loadPaymentsCmd()
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPaymentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.payments = msg.payments
		m.refreshTable()

		return m, nil

	case paymentSaveMsg:
		m.state = paymentsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("%s recorded: %s, remaining %s.",
				msg.payment.InvoiceNumber, msg.payment.Status, FormatNullMoney(msg.payment.BalanceRemaining))
		}

		return m, m.loadPaymentsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == paymentsStateNew {
		return m.updateNew(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPaymentsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(paymentStatusFilters)
			return m, m.loadPaymentsCmd()
		case "n":
			m.form = newPaymentForm()
			m.state = paymentsStateNew
			m.table.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func newPaymentForm() *huh.Form {
	idField := func(key, title string) *huh.Input {
		return huh.NewInput().
			Key(key).
			Title(title).
			Validate(func(s string) error {
				_, err := parseID(s)
				return err
			})
	}

	return huh.NewForm(
		huh.NewGroup(
			idField("lot", "Lot ID"),
			idField("client", "Client ID"),

			huh.NewInput().
				Key("date").
				Title("Payment Date").
				Value(new(FormatDate(time.Now()))).
				Validate(func(s string) error {
					_, err := parseDate(s)
					return err
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount Paid").
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("total_due").
				Title("Total Due").
				Placeholder("blank: lot cost").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}

					_, err := parseAmount(s)

					return err
				}),

			huh.NewSelect[string]().
				Key("method").
				Title("Method").
				Options(huh.NewOptions("Cash", "Bank Transfer", "Cheque", "UPI")...),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m PaymentsModel) updateNew(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = paymentsStateBrowse
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

func (m PaymentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading payments...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	filter := "All"
	if s := paymentStatusFilters[m.statusFilterIdx]; s != "" {
		filter = string(s)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Filter: [s] Status: "+activeStyle(filter)),
		renderTable(m.table),
	)

	if m.state == paymentsStateNew && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Record Payment", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PaymentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.payments))
	for _, p := range m.payments {
		status := string(p.Status)
		if p.Status == ledger.StatusOverdue {
			status = errorStyle(status)
		}

		rows = append(rows, table.Row{
			p.InvoiceNumber,
			strconv.FormatInt(p.LotID, 10),
			strconv.FormatInt(p.ClientID, 10),
			FormatDate(p.PaymentDate),
			FormatMoney(p.AmountPaid),
			FormatNullMoney(p.BalanceRemaining),
			status,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadPaymentsMsg struct {
	payments []*ledger.Payment
	err      error
}

func (m PaymentsModel) loadPaymentsCmd() tea.Cmd {
	filter := ledger.ListFilter{}
	if s := paymentStatusFilters[m.statusFilterIdx]; s != "" {
		filter.Status = &s
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		payments, err := m.ledgerService.List(ctx, filter)

		return loadPaymentsMsg{payments: payments, err: err}
	}
}

type paymentSaveMsg struct {
	payment *ledger.Payment
	err     error
}

func (m PaymentsModel) createCmd() tea.Cmd {
	form := m.form

	return func() tea.Msg {
		params := ledger.CreateParams{
			PaymentMethod: form.GetString("method"),
		}

		var err error
		if params.LotID, err = parseID(form.GetString("lot")); err != nil {
			return paymentSaveMsg{err: fmt.Errorf("lot id: %w", err)}
		}

		if params.ClientID, err = parseID(form.GetString("client")); err != nil {
			return paymentSaveMsg{err: fmt.Errorf("client id: %w", err)}
		}

		if params.PaymentDate, err = parseDate(form.GetString("date")); err != nil {
			return paymentSaveMsg{err: err}
		}

		if params.AmountPaid, err = parseAmount(form.GetString("amount")); err != nil {
			return paymentSaveMsg{err: err}
		}

		if s := form.GetString("total_due"); s != "" {
			due, err := parseAmount(s)
			if err != nil {
				return paymentSaveMsg{err: err}
			}

			params.TotalDue = decimal.NewNullDecimal(due)
		}

		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.ledgerService.Create(ctx, params)

		return paymentSaveMsg{payment: p, err: err}
	}
}
