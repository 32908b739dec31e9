package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/timeline"
)

// Markdown renders the snapshot as a human-readable report: a timeline
// section, the team, a summary table, tasks grouped by calendar month in
// chronological order, and finally the unscheduled tasks.
func Markdown(snap dashboard.Snapshot) []byte {
	var b strings.Builder

	title := snap.Project
	if snap.Route != "" {
		title += " — " + snap.Route
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Exported %s\n\n", snap.TakenAt.UTC().Format(time.RFC3339))

	writeTimelineSection(&b, snap.Settings)
	writeTeamSection(&b, snap.Settings.TeamMembers)
	writeSummarySection(&b, snap.KPIs)
	writeTaskSections(&b, snap.Tasks)

	return []byte(b.String())
}

func writeTimelineSection(b *strings.Builder, s model.Settings) {
	b.WriteString("## Timeline\n\n")
	writeDateLine(b, "Planning starts", s.RelocationStartDate)
	writeDateLine(b, "Relocation day", s.RelocationDate)
	writeDateLine(b, "Planning ends", s.RelocationEndDate)
	b.WriteString("\n")
}

func writeDateLine(b *strings.Builder, label string, t *time.Time) {
	if t == nil {
		fmt.Fprintf(b, "- %s: _not set_\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, t.Format("Monday, 2 January 2006"))
}

func writeTeamSection(b *strings.Builder, members []string) {
	b.WriteString("## Team\n\n")
	if len(members) == 0 {
		b.WriteString("_No team members yet._\n\n")
		return
	}
	for _, m := range members {
		fmt.Fprintf(b, "- %s\n", m)
	}
	b.WriteString("\n")
}

func writeSummarySection(b *strings.Builder, k dashboard.KPIs) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Steps | %d |\n", k.TaskCount)
	fmt.Fprintf(b, "| Done | %d (%d%%) |\n", k.DoneCount, k.PercentDone)
	fmt.Fprintf(b, "| Budget estimated | %.2f |\n", k.TotalEstimated)
	fmt.Fprintf(b, "| Budget actual | %.2f |\n", k.TotalActual)
	fmt.Fprintf(b, "| Budget optional | %.2f |\n", k.TotalOptional)
	b.WriteString("\n")
}

func writeTaskSections(b *strings.Builder, tasks []model.Task) {
	sorted := timeline.SortChronologically(tasks)

	b.WriteString("## Steps\n\n")
	groups := timeline.GroupByMonth(sorted)
	if len(groups) == 0 {
		b.WriteString("_No scheduled steps._\n\n")
	}
	for _, g := range groups {
		fmt.Fprintf(b, "### %s %d\n\n", g.Month, g.Year)
		for _, t := range g.Tasks {
			writeTaskLine(b, t, true)
		}
		b.WriteString("\n")
	}

	var undated []model.Task
	for _, t := range sorted {
		if t.Date == nil {
			undated = append(undated, t)
		}
	}
	if len(undated) > 0 {
		b.WriteString("### Unscheduled\n\n")
		for _, t := range undated {
			writeTaskLine(b, t, false)
		}
		b.WriteString("\n")
	}
}

func writeTaskLine(b *strings.Builder, t model.Task, withDate bool) {
	check := " "
	if t.Status == model.StatusDone {
		check = "x"
	}

	var meta []string
	if withDate && t.Date != nil {
		meta = append(meta, t.Date.Format("Jan 02"))
	}
	if t.Phase != "" {
		meta = append(meta, t.Phase)
	}
	if t.Assignee != "" {
		meta = append(meta, "@"+t.Assignee)
	}
	if t.Status == model.StatusInProgress {
		meta = append(meta, model.StatusLabel(t.Status))
	}
	if t.BudgetEstimated > 0 || t.BudgetActual > 0 {
		meta = append(meta, fmt.Sprintf("est %.2f / act %.2f", t.BudgetEstimated, t.BudgetActual))
	}

	line := fmt.Sprintf("- [%s] %s", check, t.Title)
	if len(meta) > 0 {
		line += " (" + strings.Join(meta, ", ") + ")"
	}
	b.WriteString(line + "\n")
}
