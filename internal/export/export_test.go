package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/export"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleSnapshot() dashboard.Snapshot {
	tasks := []model.Task{
		{
			ID: "t1", Phase: "Paperwork", Title: "Apply for visa",
			Status: model.StatusDone, Date: date(2026, time.January, 10),
			BudgetEstimated: 120, BudgetActual: 95, OrderIndex: 1,
			Assignee: "Ru",
		},
		{
			ID: "t2", Phase: "Housing", Title: "Find apartment",
			Status: model.StatusInProgress, Date: date(2026, time.March, 5),
			BudgetEstimated: 2000, OrderIndex: 2,
		},
		{
			ID: "t3", Phase: "Logistics", Title: "Sell furniture",
			Status: model.StatusTodo, OrderIndex: 3,
			BudgetOptional: 300, Notes: "only the big pieces",
		},
	}

	return dashboard.Snapshot{
		Project: "our-move",
		Route:   "Lisbon -> Milan",
		TakenAt: time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC),
		Settings: model.Settings{
			RelocationDate: date(2026, time.February, 1),
			TeamMembers:    []string{"Ru", "Sam"},
		},
		Tasks: tasks,
		KPIs:  dashboard.ComputeKPIs(tasks),
	}
}

func TestJSONRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	data, err := export.JSON(snap)
	require.NoError(t, err)

	doc, err := export.ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "our-move", doc.Project)
	assert.Equal(t, "Lisbon -> Milan", doc.Route)
	assert.Equal(t, "2026-02-01", doc.Config.RelocationDate)
	assert.Empty(t, doc.Config.RelocationStartDate)
	assert.Equal(t, []string{"Ru", "Sam"}, doc.Team)
	require.Len(t, doc.Tasks, 3)

	// Budget totals and status distribution survive the round trip.
	assert.Equal(t, snap.KPIs.TotalEstimated, doc.Summary.TotalEstimated)
	assert.Equal(t, snap.KPIs.DoneCount, doc.Summary.DoneCount)
	statuses := map[string]int{}
	for _, r := range doc.Tasks {
		statuses[r.Status]++
	}
	assert.Equal(t, map[string]int{"done": 1, "progress": 1, "todo": 1}, statuses)
}

func TestImportTasksRebuildsModel(t *testing.T) {
	snap := sampleSnapshot()
	data, err := export.JSON(snap)
	require.NoError(t, err)
	doc, err := export.ParseJSON(data)
	require.NoError(t, err)

	tasks, err := export.ImportTasks(doc, "acct-1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "acct-1", tasks[0].OwnerID)
	assert.Equal(t, "Apply for visa", tasks[0].Title)
	require.NotNil(t, tasks[0].Date)
	assert.True(t, tasks[0].Date.Equal(*snap.Tasks[0].Date))
	assert.Nil(t, tasks[2].Date)
	assert.Equal(t, 300.0, tasks[2].BudgetOptional)
}

func TestMarkdownSections(t *testing.T) {
	out := string(export.Markdown(sampleSnapshot()))

	assert.True(t, strings.HasPrefix(out, "# our-move — Lisbon -> Milan"))
	assert.Contains(t, out, "## Timeline")
	assert.Contains(t, out, "## Team")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "| Metric | Value |")

	// Dated steps group under month headings, undated ones at the end.
	assert.Contains(t, out, "### January 2026")
	assert.Contains(t, out, "### March 2026")
	assert.Contains(t, out, "### Unscheduled")
	assert.Contains(t, out, "- [x] Apply for visa")
	assert.Contains(t, out, "- [ ] Sell furniture")
	assert.Less(t,
		strings.Index(out, "### January 2026"),
		strings.Index(out, "### March 2026"))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := export.Render(sampleSnapshot(), "xml")
	assert.Error(t, err)
}

func TestWriteFileCreatesTimestampedFile(t *testing.T) {
	dir := t.TempDir()

	path, err := export.WriteFile(sampleSnapshot(), export.FormatJSON, dir)
	require.NoError(t, err)

	assert.Contains(t, path, "our-move-")
	assert.True(t, strings.HasSuffix(path, ".json"))
}
