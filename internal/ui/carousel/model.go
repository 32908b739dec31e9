package carousel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/keys"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/theme"
	"github.com/RuDeeVelops/ptIt-relo/internal/timeline"
)

// EditStepMsg is sent when the user wants to edit the shown step.
type EditStepMsg struct {
	TaskID string
}

// Model is the single-card carousel view: one step at a time, paged
// with h/l in chronological order.
type Model struct {
	ctrl    *dashboard.Controller
	keys    *keys.KeyMap
	tasks   []model.Task
	index   int
	lastErr string
	width   int
	height  int
}

// New creates a new carousel model.
func New(c *dashboard.Controller, k *keys.KeyMap, width, height int) Model {
	m := Model{
		ctrl:   c,
		keys:   k,
		width:  width,
		height: height,
	}
	m.Reload()
	return m
}

// Reload refreshes the card order from the controller's current tasks.
func (m *Model) Reload() {
	m.tasks = timeline.SortChronologically(m.ctrl.Tasks())
	if m.index >= len(m.tasks) {
		m.index = len(m.tasks) - 1
	}
	if m.index < 0 {
		m.index = 0
	}
}

// Update handles messages for the carousel view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.lastErr = ""

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		if m.index > 0 {
			m.index--
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Right):
		if m.index < len(m.tasks)-1 {
			m.index++
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Toggle):
		if t, ok := m.current(); ok {
			if err := m.ctrl.ToggleStatus(t.ID); err != nil {
				m.lastErr = "could not update step: " + err.Error()
			}
			m.Reload()
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Select), key.Matches(keyMsg, m.keys.Edit):
		if t, ok := m.current(); ok {
			id := t.ID
			return m, func() tea.Msg { return EditStepMsg{TaskID: id} }
		}
		return m, nil
	}

	return m, nil
}

// placementBadge renders the card's position relative to the move day,
// empty when either date is missing.
func (m Model) placementBadge(t model.Task) string {
	switch timeline.Classify(t, m.ctrl.Settings().RelocationDate) {
	case timeline.Before:
		return theme.PlacementStyle("before").Render("before the move")
	case timeline.After:
		return theme.PlacementStyle("after").Render("after the move")
	default:
		return ""
	}
}

// current returns the task shown on the active card.
func (m Model) current() (model.Task, bool) {
	if len(m.tasks) == 0 {
		return model.Task{}, false
	}
	return m.tasks[m.index], true
}

// View renders the active card centered in the content area.
func (m Model) View() string {
	t, ok := m.current()
	if !ok {
		return theme.HelpStyle.
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No steps to show.")
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(t.Title))
	b.WriteString("\n")
	b.WriteString(theme.StatusStyle(t.Status).Render(model.StatusLabel(t.Status)))
	b.WriteString("  " + theme.HelpStyle.Render(t.Phase))
	if badge := m.placementBadge(t); badge != "" {
		b.WriteString("  " + badge)
	}
	b.WriteString("\n\n")

	if t.Date != nil {
		b.WriteString("Date      " + t.Date.Format("Mon, Jan 02 2006") + "\n")
	} else {
		b.WriteString("Date      " + theme.DimmedStyle.Render("unscheduled") + "\n")
	}
	if t.Assignee != "" {
		b.WriteString("Assignee  " + t.Assignee + "\n")
	}
	b.WriteString(fmt.Sprintf("Budget    est €%.2f · spent €%.2f · optional €%.2f\n",
		t.BudgetEstimated, t.BudgetActual, t.BudgetOptional))

	if t.Notes != "" {
		b.WriteString("\n" + t.Notes + "\n")
	}

	pager := theme.HelpStyle.Render(
		fmt.Sprintf("‹ h  %d/%d  l ›", m.index+1, len(m.tasks)),
	)

	card := theme.CardStyle.Width(min(m.width-4, 72)).Render(b.String())

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, pager),
	)
}

// StatusHint reports the failure of the last rejected action, if any.
func (m Model) StatusHint() string {
	if m.lastErr == "" {
		return ""
	}
	return theme.ErrorStyle.Render(m.lastErr)
}

// SetSize updates the card dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
