// Package export serializes a dashboard snapshot into downloadable
// documents. Both formats are pure projections of the snapshot; nothing
// here mutates state.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// Format selects the export serializer.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

const dateLayout = "2006-01-02"

// Document is the JSON export shape.
type Document struct {
	Project    string       `json:"project"`
	Route      string       `json:"route"`
	ExportedAt string       `json:"exportedAt"`
	Config     ConfigDoc    `json:"config"`
	Team       []string     `json:"teamMembers"`
	Summary    SummaryDoc   `json:"summary"`
	Tasks      []TaskRecord `json:"tasks"`
}

// ConfigDoc carries the three optional planning dates as ISO strings.
type ConfigDoc struct {
	RelocationStartDate string `json:"relocationStartDate,omitempty"`
	RelocationDate      string `json:"relocationDate,omitempty"`
	RelocationEndDate   string `json:"relocationEndDate,omitempty"`
}

// SummaryDoc carries counts and budget totals.
type SummaryDoc struct {
	TaskCount      int     `json:"taskCount"`
	DoneCount      int     `json:"doneCount"`
	PercentDone    int     `json:"percentDone"`
	TotalEstimated float64 `json:"totalEstimated"`
	TotalActual    float64 `json:"totalActual"`
	TotalOptional  float64 `json:"totalOptional"`
}

// TaskRecord is a flattened task with ISO date strings.
type TaskRecord struct {
	ID              string  `json:"id"`
	Phase           string  `json:"phase"`
	Title           string  `json:"title"`
	Notes           string  `json:"notes,omitempty"`
	Status          string  `json:"status"`
	Date            string  `json:"date,omitempty"`
	Assignee        string  `json:"assignee,omitempty"`
	OrderIndex      int     `json:"orderIndex"`
	BudgetEstimated float64 `json:"budgetEstimated"`
	BudgetActual    float64 `json:"budgetActual"`
	BudgetOptional  float64 `json:"budgetOptional"`
}

// BuildDocument converts a snapshot into the JSON export shape.
func BuildDocument(snap dashboard.Snapshot) Document {
	doc := Document{
		Project:    snap.Project,
		Route:      snap.Route,
		ExportedAt: snap.TakenAt.UTC().Format(time.RFC3339),
		Config: ConfigDoc{
			RelocationStartDate: isoDate(snap.Settings.RelocationStartDate),
			RelocationDate:      isoDate(snap.Settings.RelocationDate),
			RelocationEndDate:   isoDate(snap.Settings.RelocationEndDate),
		},
		Team: snap.Settings.TeamMembers,
		Summary: SummaryDoc{
			TaskCount:      snap.KPIs.TaskCount,
			DoneCount:      snap.KPIs.DoneCount,
			PercentDone:    snap.KPIs.PercentDone,
			TotalEstimated: snap.KPIs.TotalEstimated,
			TotalActual:    snap.KPIs.TotalActual,
			TotalOptional:  snap.KPIs.TotalOptional,
		},
	}
	if doc.Team == nil {
		doc.Team = []string{}
	}

	doc.Tasks = make([]TaskRecord, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		doc.Tasks = append(doc.Tasks, TaskRecord{
			ID:              t.ID,
			Phase:           t.Phase,
			Title:           t.Title,
			Notes:           t.Notes,
			Status:          t.Status,
			Date:            isoDate(t.Date),
			Assignee:        t.Assignee,
			OrderIndex:      t.OrderIndex,
			BudgetEstimated: t.BudgetEstimated,
			BudgetActual:    t.BudgetActual,
			BudgetOptional:  t.BudgetOptional,
		})
	}
	return doc
}

// JSON renders the snapshot as an indented JSON document.
func JSON(snap dashboard.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(BuildDocument(snap), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON reads an export document back, primarily for import and for
// verifying round trips.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing export: %w", err)
	}
	return doc, nil
}

// Render produces the snapshot in the requested format.
func Render(snap dashboard.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(snap), nil
	case FormatJSON:
		return JSON(snap)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile renders the snapshot and writes it to dir with a timestamped
// name, returning the full path.
func WriteFile(snap dashboard.Snapshot, format Format, dir string) (string, error) {
	data, err := Render(snap, format)
	if err != nil {
		return "", err
	}

	ext := "json"
	if format == FormatMarkdown {
		ext = "md"
	}
	name := fmt.Sprintf("%s-%s.%s",
		snap.Project, snap.TakenAt.UTC().Format("20060102-150405"), ext)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export %s: %w", path, err)
	}
	return path, nil
}

// isoDate formats an optional date as YYYY-MM-DD, empty when nil.
func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ImportTasks converts a parsed document's task records back into model
// tasks owned by ownerID. Records with malformed dates abort the import.
func ImportTasks(doc Document, ownerID string) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(doc.Tasks))
	for _, r := range doc.Tasks {
		t, err := recordToTask(r, ownerID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func recordToTask(r TaskRecord, ownerID string) (model.Task, error) {
	t := model.Task{
		ID:              r.ID,
		OwnerID:         ownerID,
		Phase:           r.Phase,
		Title:           r.Title,
		Notes:           r.Notes,
		Status:          r.Status,
		Assignee:        r.Assignee,
		OrderIndex:      r.OrderIndex,
		BudgetEstimated: r.BudgetEstimated,
		BudgetActual:    r.BudgetActual,
		BudgetOptional:  r.BudgetOptional,
	}
	if r.Date != "" {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return model.Task{}, fmt.Errorf("parsing task date %q: %w", r.Date, err)
		}
		d = model.DateOnly(d)
		t.Date = &d
	}
	return t, nil
}
