package timelineview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/keys"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/theme"
	"github.com/RuDeeVelops/ptIt-relo/internal/timeline"
)

// EditStepMsg is sent when the user wants to edit a step.
type EditStepMsg struct {
	TaskID string
}

// NewStepMsg is sent when the user wants to create a step.
type NewStepMsg struct{}

// Model is the timeline list view component.
type Model struct {
	list          list.Model
	ctrl          *dashboard.Controller
	keys          *keys.KeyMap
	pendingDelete string
	lastErr       string
	width         int
	height        int
}

// New creates a new timeline view model.
func New(c *dashboard.Controller, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, RowDelegate{}, width, height)
	l.Title = "Timeline"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	m := Model{
		list:   l,
		ctrl:   c,
		keys:   k,
		width:  width,
		height: height,
	}
	m.Reload()
	return m
}

// Reload rebuilds the list rows from the controller's current tasks.
func (m *Model) Reload() {
	tasks := m.ctrl.Tasks()
	settings := m.ctrl.Settings()
	parts := timeline.Partition(tasks, settings.RelocationDate)

	var rows []list.Item
	appendGrouped := func(heading string, tasks []model.Task) {
		if len(tasks) == 0 {
			return
		}
		rows = append(rows, SectionRow(heading))
		for _, g := range timeline.GroupByMonth(tasks) {
			label := fmt.Sprintf("%s %d", g.Month.String(), g.Year)
			rows = append(rows, MonthRow(label))
			for _, t := range g.Tasks {
				rows = append(rows, StepRow(t))
			}
		}
	}

	if settings.RelocationDate == nil {
		appendGrouped("Scheduled", append(parts.Before, parts.After...))
	} else {
		appendGrouped("Before the move", parts.Before)
		appendGrouped("After the move", parts.After)
	}

	if len(parts.Undated) > 0 {
		rows = append(rows, SectionRow("Unscheduled"))
		for _, t := range parts.Undated {
			rows = append(rows, StepRow(t))
		}
	}

	// Keep cursor position across reloads where possible.
	idx := m.list.Index()
	m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// Update handles messages for the timeline view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.pendingDelete != "" {
		return m.handleDeleteConfirm(keyMsg)
	}
	m.lastErr = ""

	switch {
	case key.Matches(keyMsg, m.keys.New):
		return m, func() tea.Msg { return NewStepMsg{} }

	case key.Matches(keyMsg, m.keys.Select), key.Matches(keyMsg, m.keys.Edit):
		if t, ok := m.selectedTask(); ok {
			id := t.ID
			return m, func() tea.Msg { return EditStepMsg{TaskID: id} }
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Toggle):
		if t, ok := m.selectedTask(); ok {
			if err := m.ctrl.ToggleStatus(t.ID); err != nil {
				m.lastErr = "could not update step: " + err.Error()
			}
			m.Reload()
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Delete):
		if t, ok := m.selectedTask(); ok {
			m.pendingDelete = t.ID
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.MoveUp):
		m.moveSelected(-1)
		return m, nil

	case key.Matches(keyMsg, m.keys.MoveDown):
		m.moveSelected(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDeleteConfirm processes key input while a delete is pending.
// Only "y" confirms; any other key cancels.
func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""

	if msg.String() == "y" {
		m.lastErr = ""
		if err := m.ctrl.Delete(id); err != nil {
			m.lastErr = "could not delete step: " + err.Error()
		}
		m.Reload()
	}
	return m, nil
}

// moveSelected swaps the selected step with its neighbor in manual order
// and persists the new ordering.
func (m *Model) moveSelected(delta int) {
	t, ok := m.selectedTask()
	if !ok {
		return
	}

	ordered := orderedIDs(m.ctrl.Tasks())
	pos := -1
	for i, id := range ordered {
		if id == t.ID {
			pos = i
			break
		}
	}
	target := pos + delta
	if pos < 0 || target < 0 || target >= len(ordered) {
		return
	}

	ordered[pos], ordered[target] = ordered[target], ordered[pos]
	if err := m.ctrl.Reorder(ordered); err != nil {
		m.lastErr = "could not reorder steps: " + err.Error()
	}
	m.Reload()
}

// selectedTask returns the task of the focused row, if the cursor is on one.
func (m Model) selectedTask() (model.Task, bool) {
	row, ok := m.list.SelectedItem().(Row)
	if !ok || !row.IsStep() {
		return model.Task{}, false
	}
	return row.Task, true
}

// orderedIDs extracts task IDs sorted by their manual order index.
func orderedIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// View renders the timeline view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return theme.HelpStyle.
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No steps yet.\n\nPress n to add your first relocation step.")
	}
	return m.list.View()
}

// StatusHint returns an extra line for the status bar: a pending delete
// confirmation, or the failure of the last rejected action.
func (m Model) StatusHint() string {
	if m.pendingDelete != "" {
		return theme.ErrorStyle.Render("delete step? press y to confirm")
	}
	if m.lastErr != "" {
		return theme.ErrorStyle.Render(m.lastErr)
	}
	return ""
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
