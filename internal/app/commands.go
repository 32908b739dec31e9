package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RuDeeVelops/ptIt-relo/internal/export"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/store"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/setupview"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/stepform"
)

// controllerUpdatedMsg is sent whenever the dashboard controller's state
// changed and views should re-read it.
type controllerUpdatedMsg struct{}

// stepCreatedMsg reports the outcome of a placeholder step creation.
type stepCreatedMsg struct {
	err error
}

// exportDoneMsg reports the outcome of a snapshot export.
type exportDoneMsg struct {
	path string
	err  error
}

// createStep returns a command that creates a placeholder step.
func (m Model) createStep() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return stepCreatedMsg{err: ctrl.CreateTask()}
	}
}

// export returns a command that writes a snapshot file in the given format.
func (m Model) export(format export.Format) tea.Cmd {
	snap := m.ctrl.Snapshot(m.cfg.Project, m.cfg.Route)
	dir := m.cfg.ExportDir
	return func() tea.Msg {
		path, err := export.WriteFile(snap, format, dir)
		return exportDoneMsg{path: path, err: err}
	}
}

// applyStepValues turns submitted form values into one field patch per
// field and applies them through the controller.
func (m Model) applyStepValues(taskID string, v stepform.Values) {
	patches := []store.FieldPatch{
		store.TitlePatch{Value: v.Title},
		store.PhasePatch{Value: v.Phase},
		store.NotesPatch{Value: v.Notes},
		store.BudgetPatch{Kind: store.BudgetEstimated, Value: v.BudgetEstimated},
		store.BudgetPatch{Kind: store.BudgetActual, Value: v.BudgetActual},
		store.BudgetPatch{Kind: store.BudgetOptional, Value: v.BudgetOptional},
		store.StatusPatch{Value: v.Status},
		store.DatePatch{Value: v.Date},
		store.AssigneePatch{Value: v.Assignee},
	}
	for _, p := range patches {
		if err := m.ctrl.Update(taskID, p); err != nil {
			return
		}
	}
}

// applySetup persists the relocation window and reconciles the team list
// against the controller's current one.
func (m Model) applySetup(msg setupview.SetupSavedMsg) {
	if err := m.ctrl.SetRelocationDates(msg.StartDate, msg.MoveDate, msg.EndDate); err != nil {
		return
	}

	current := m.ctrl.Settings().TeamMembers
	wanted := make(map[string]bool, len(msg.Team))
	for _, name := range msg.Team {
		wanted[name] = true
	}
	for _, name := range current {
		if !wanted[name] {
			_ = m.ctrl.RemoveTeamMember(name)
		}
	}
	for _, name := range msg.Team {
		_ = m.ctrl.AddTeamMember(name)
	}
}

// newestTask returns the task with the highest manual order index, which
// is where freshly created steps land.
func newestTask(tasks []model.Task) (model.Task, bool) {
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	best := tasks[0]
	for _, t := range tasks[1:] {
		if t.OrderIndex > best.OrderIndex {
			best = t
		}
	}
	return best, true
}
