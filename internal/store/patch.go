package store

import (
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// FieldPatch is a closed set of single-field task updates. Each variant
// carries its properly-typed value, knows the column it writes, and can
// apply itself to an in-memory task for optimistic local updates. The
// dashboard controller dispatches one patch per edited field.
type FieldPatch interface {
	// Column returns the task table column the patch writes.
	Column() string

	// Arg returns the value bound into the UPDATE statement.
	Arg() any

	// Apply mutates the in-memory task to match the patch.
	Apply(t *model.Task)
}

// TitlePatch sets the task title.
type TitlePatch struct{ Value string }

func (p TitlePatch) Column() string      { return "title" }
func (p TitlePatch) Arg() any            { return p.Value }
func (p TitlePatch) Apply(t *model.Task) { t.Title = p.Value }

// PhasePatch sets the free-text phase label.
type PhasePatch struct{ Value string }

func (p PhasePatch) Column() string      { return "phase" }
func (p PhasePatch) Arg() any            { return p.Value }
func (p PhasePatch) Apply(t *model.Task) { t.Phase = p.Value }

// NotesPatch sets the long description.
type NotesPatch struct{ Value string }

func (p NotesPatch) Column() string      { return "notes" }
func (p NotesPatch) Arg() any            { return p.Value }
func (p NotesPatch) Apply(t *model.Task) { t.Notes = p.Value }

// BudgetKind selects which of the three budget columns a BudgetPatch writes.
type BudgetKind int

const (
	BudgetEstimated BudgetKind = iota
	BudgetActual
	BudgetOptional
)

// BudgetPatch sets one budget amount. Negative values are clamped to 0,
// matching the "malformed input coerces to zero" policy.
type BudgetPatch struct {
	Kind  BudgetKind
	Value float64
}

func (p BudgetPatch) Column() string {
	switch p.Kind {
	case BudgetActual:
		return "budget_actual"
	case BudgetOptional:
		return "budget_optional"
	default:
		return "budget_estimated"
	}
}

func (p BudgetPatch) amount() float64 {
	if p.Value < 0 {
		return 0
	}
	return p.Value
}

func (p BudgetPatch) Arg() any { return p.amount() }

func (p BudgetPatch) Apply(t *model.Task) {
	switch p.Kind {
	case BudgetActual:
		t.BudgetActual = p.amount()
	case BudgetOptional:
		t.BudgetOptional = p.amount()
	default:
		t.BudgetEstimated = p.amount()
	}
}

// StatusPatch sets the task status to one of the model.Status* literals.
type StatusPatch struct{ Value string }

func (p StatusPatch) Column() string      { return "status" }
func (p StatusPatch) Arg() any            { return p.Value }
func (p StatusPatch) Apply(t *model.Task) { t.Status = p.Value }

// DatePatch sets or clears the scheduled day. A nil value unschedules
// the task.
type DatePatch struct{ Value *time.Time }

func (p DatePatch) normalized() *time.Time {
	if p.Value == nil {
		return nil
	}
	d := model.DateOnly(*p.Value)
	return &d
}

func (p DatePatch) Column() string      { return "date" }
func (p DatePatch) Arg() any            { return p.normalized() }
func (p DatePatch) Apply(t *model.Task) { t.Date = p.normalized() }

// AssigneePatch sets the assignee name; empty clears it.
type AssigneePatch struct{ Value string }

func (p AssigneePatch) Column() string      { return "assignee" }
func (p AssigneePatch) Arg() any            { return p.Value }
func (p AssigneePatch) Apply(t *model.Task) { t.Assignee = p.Value }

// OrderPatch sets the manual order index.
type OrderPatch struct{ Value int }

func (p OrderPatch) Column() string      { return "order_index" }
func (p OrderPatch) Arg() any            { return p.Value }
func (p OrderPatch) Apply(t *model.Task) { t.OrderIndex = p.Value }
