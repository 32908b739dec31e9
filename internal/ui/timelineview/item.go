package timelineview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/theme"
)

// rowKind distinguishes the row types mixed into the flat list.
type rowKind int

const (
	rowSection rowKind = iota
	rowMonth
	rowStep
)

// Row is a single line in the timeline list: a section heading, a month
// heading, or a relocation step.
type Row struct {
	Kind  rowKind
	Label string
	Task  model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (r Row) FilterValue() string {
	if r.Kind == rowStep {
		return r.Task.Title
	}
	return ""
}

// IsStep reports whether the row carries a task.
func (r Row) IsStep() bool { return r.Kind == rowStep }

// SectionRow builds a section heading row.
func SectionRow(label string) Row {
	return Row{Kind: rowSection, Label: label}
}

// MonthRow builds a month heading row.
func MonthRow(label string) Row {
	return Row{Kind: rowMonth, Label: label}
}

// StepRow builds a task row.
func StepRow(t model.Task) Row {
	return Row{Kind: rowStep, Task: t}
}

// RowDelegate implements list.ItemDelegate for timeline rows.
type RowDelegate struct{}

// Height returns the number of lines each item takes.
func (d RowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d RowDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single timeline row.
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}

	switch row.Kind {
	case rowSection:
		fmt.Fprint(w, theme.SectionStyle.Render(row.Label))
	case rowMonth:
		fmt.Fprint(w, "  "+theme.MonthStyle.Render(row.Label))
	case rowStep:
		d.renderStep(w, row.Task, index == m.Index())
	}
}

// renderStep draws a single step line.
func (d RowDelegate) renderStep(w io.Writer, t model.Task, isSelected bool) {
	var prefix string
	switch t.Status {
	case model.StatusDone:
		prefix = "✓"
	case model.StatusInProgress:
		prefix = "◐"
	default:
		prefix = "○"
	}

	statusBadge := theme.StatusStyle(t.Status).Render(model.StatusLabel(t.Status))

	dateStr := ""
	if t.Date != nil {
		dateStr = " " + t.Date.Format("Jan 02")
	}

	assignee := ""
	if t.Assignee != "" {
		assignee = " @" + t.Assignee
	}

	budget := ""
	if t.BudgetEstimated > 0 {
		budget = fmt.Sprintf(" €%.0f", t.BudgetEstimated)
	}

	line := fmt.Sprintf(
		"%s %s %s · %s%s%s%s",
		prefix, statusBadge, truncate(t.Title, 48), t.Phase, dateStr, assignee, budget,
	)

	if t.Status == model.StatusDone {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
