package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/shankh/internal/export"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	form    *huh.Form
	spinner spinner.Model

	file string
	err  error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		form:          newExportForm(),
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func newExportForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Table]().
				Key("table").
				Title("Table").
				Options(
					huh.NewOption("Day book", export.TableDaybook),
					huh.NewOption("Client ledger", export.TablePayments),
					huh.NewOption("Lots", export.TableLots),
				),

			huh.NewSelect[export.Format]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("Excel (.xlsx)", export.FormatXLSX),
					huh.NewOption("CSV", export.FormatCSV),
				),

			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Created if it doesn't exist").
				Value(new("./exports")),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.file = result.file
		m.err = result.err

		return m, nil
	}

	switch m.state {
	case exportStateExporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	table, _ := m.form.Get("table").(export.Table)
	format, _ := m.form.Get("format").(export.Format)
	m.state = exportStateExporting

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(table, format, m.form.GetString("dir")))
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Exporting...")
	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(okStyle("Export Complete!")),
				"",
				"Written to "+m.file,
			),
		)
	}

	return ""
}

type exportResultMsg struct {
	file string
	err  error
}

func (m ExportModel) runExportCmd(table export.Table, format export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
		}

		path := filepath.Join(dir, m.exportService.Filename(table, format))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := m.exportService.Export(ctx, table, format, f); err != nil {
			f.Close()
			os.Remove(path)

			return exportResultMsg{err: err}
		}

		if err := f.Close(); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{file: path}
	}
}
