package model

import (
	"strconv"
	"strings"
	"time"
)

// Task status constants. These are the literal strings persisted by the
// store; "progress" is rendered as "in progress" in the UI.
const (
	StatusTodo       = "todo"
	StatusInProgress = "progress"
	StatusDone       = "done"
)

// Task is a single relocation step owned by one user.
type Task struct {
	// ID is the store-assigned unique identifier, immutable after creation.
	ID string `json:"id" db:"id"`

	// OwnerID is the identifier of the authenticated user who owns this
	// task. Set once at creation; every store query is scoped to it.
	OwnerID string `json:"owner_id" db:"owner_id"`

	// Phase is a free-text label grouping related steps
	// (e.g. "Paperwork", "Housing").
	Phase string `json:"phase" db:"phase"`

	// Title is the short description of the step.
	Title string `json:"title" db:"title"`

	// Notes holds the long free-text description.
	Notes string `json:"notes" db:"notes"`

	// Budget amounts are non-negative and currency-agnostic.
	BudgetEstimated float64 `json:"budget_estimated" db:"budget_estimated"`
	BudgetActual    float64 `json:"budget_actual" db:"budget_actual"`
	BudgetOptional  float64 `json:"budget_optional" db:"budget_optional"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// Date is the scheduled calendar day, nil when unscheduled.
	// Time-of-day is not meaningful; values are normalized to UTC midnight.
	Date *time.Time `json:"date,omitempty" db:"date"`

	// Assignee is an optional name drawn from Settings.TeamMembers.
	Assignee string `json:"assignee" db:"assignee"`

	// OrderIndex drives manual ordering; 0 means "use creation order".
	OrderIndex int `json:"order_index" db:"order_index"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NextStatus advances a status through the fixed cycle
// todo -> progress -> done -> todo. Unknown values restart the cycle,
// keeping the function total.
func NextStatus(s string) string {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	case StatusDone:
		return StatusTodo
	default:
		return StatusTodo
	}
}

// StatusLabel returns the display name for a persisted status literal.
func StatusLabel(s string) string {
	switch s {
	case StatusTodo:
		return "to do"
	case StatusInProgress:
		return "in progress"
	case StatusDone:
		return "done"
	default:
		return s
	}
}

// ParseAmount converts free-form budget input into a non-negative amount.
// Malformed or negative input coerces to 0 rather than erroring.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// DateOnly truncates t to UTC midnight, the granularity used for all
// timeline comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
