package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Period is a predefined or custom day book date range.
type Period int

const (
	PeriodToday Period = iota
	PeriodThisWeek
	PeriodThisMonth
	PeriodLastMonth
	PeriodThisYear
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodToday:
		return "Today"
	case PeriodThisWeek:
		return "This Week"
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisYear:
		return "This Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive day range of p relative to now. Both are nil for PeriodAll and PeriodCustom.
func (p Period) Range(now time.Time) (start, end *time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var s, e time.Time

	switch p {
	case PeriodToday:
		s, e = today, today
	case PeriodThisWeek:
		offset := int(today.Weekday())
		if offset == 0 {
			offset = 7
		}

		s, e = today.AddDate(0, 0, 1-offset), today
	case PeriodThisMonth:
		s, e = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today
	case PeriodLastMonth:
		s = time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e = s.AddDate(0, 1, -1)
	case PeriodThisYear:
		s, e = time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), today
	default:
		return nil, nil
	}

	return &s, &e
}

// PeriodSelectedMsg carries the chosen range. Nil bounds are open.
type PeriodSelectedMsg struct {
	Label string
	Start *time.Time
	End   *time.Time
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker selects a date range from a list or from two typed dates.
type PeriodPicker struct {
	state    periodState
	selected Period
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker(initial Period) PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "From: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "To:   "

	return PeriodPicker{
		state:      periodStateSelect,
		selected:   initial,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.state == periodStateSelect {
			return m.updateSelect(key)
		}

		if next, cmd, handled := m.updateCustom(key); handled {
			return next, cmd
		}
	}

	if m.state != periodStateCustom {
		return m, nil
	}

	var cmds [2]tea.Cmd
	m.startInput, cmds[0] = m.startInput.Update(msg)
	m.endInput, cmds[1] = m.endInput.Update(msg)

	return m, tea.Batch(cmds[:]...)
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodToday {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		}

		selected := m.selected
		start, end := selected.Range(m.now())

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Label: selected.String(), Start: start, End: end}
		}
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true
	case "enter":
		start, err := parseDate(m.startInput.Value())
		if err != nil {
			m.err = fmt.Errorf("from date: %w", err)
			return m, nil, true
		}

		end, err := parseDate(m.endInput.Value())
		if err != nil {
			m.err = fmt.Errorf("to date: %w", err)
			return m, nil, true
		}

		if end.Before(start) {
			m.err = fmt.Errorf("to date is before from date")
			return m, nil, true
		}

		m.err = nil
		label := fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end))

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Label: label, Start: &start, End: &end}
		}, true
	case "esc":
		m.state = periodStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + errorStyle(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Period:\n\n"
	for p := PeriodToday; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p)
	}

	return s + "\n(Enter to select, Esc to back)" + errStr
}

// IsSelecting reports whether the picker shows the period list rather than the custom inputs.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}

// Reset returns the picker to its list.
func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
