// Package timeline contains the pure transforms that turn a flat task
// collection into a display-ready structure relative to the relocation day.
// Everything here is stateless and side-effect free; it runs on every
// render and update.
package timeline

import (
	"sort"
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// Placement classifies a task relative to the relocation day.
type Placement int

const (
	// Undetermined means either the task or the relocation day is undated.
	Undetermined Placement = iota
	Before
	After
)

// Partitioned is a strict three-way split of a task collection.
// Before, After, and Undated together contain every input task exactly once.
type Partitioned struct {
	Before  []model.Task
	After   []model.Task
	Undated []model.Task
}

// MonthGroup is a contiguous run of dated tasks sharing a calendar month.
type MonthGroup struct {
	Year  int
	Month time.Month
	Tasks []model.Task
}

// SortChronologically orders dated tasks ascending by date and appends
// undated tasks after them, preserving input order within both groups
// (stable sort).
func SortChronologically(tasks []model.Task) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return sorted
}

// Classify places a single task relative to the relocation day. A task
// dated exactly on the relocation day classifies After: the comparison is
// a strict "before".
func Classify(task model.Task, relocationDate *time.Time) Placement {
	if task.Date == nil || relocationDate == nil {
		return Undetermined
	}
	if model.DateOnly(*task.Date).Before(model.DateOnly(*relocationDate)) {
		return Before
	}
	return After
}

// Partition splits tasks into before/after/undated buckets. The Undated
// bucket is always exactly the undated subset, whether or not a relocation
// day is configured; when it is not, every dated task lands in After by
// way of Undetermined handling below, and callers should present that as
// "no relocation day configured" rather than a meaningful split.
func Partition(tasks []model.Task, relocationDate *time.Time) Partitioned {
	var p Partitioned
	for _, t := range tasks {
		switch Classify(t, relocationDate) {
		case Before:
			p.Before = append(p.Before, t)
		case After:
			p.After = append(p.After, t)
		default:
			if t.Date == nil {
				p.Undated = append(p.Undated, t)
			} else {
				// Dated task with no relocation day configured.
				p.After = append(p.After, t)
			}
		}
	}
	return p
}

// GroupByMonth walks the chronologically sorted input and opens a new
// group whenever the (year, month) pair changes. Undated tasks are
// excluded from grouping entirely.
func GroupByMonth(sorted []model.Task) []MonthGroup {
	var groups []MonthGroup
	for _, t := range sorted {
		if t.Date == nil {
			continue
		}
		y, m := t.Date.Year(), t.Date.Month()
		if len(groups) == 0 || groups[len(groups)-1].Year != y || groups[len(groups)-1].Month != m {
			groups = append(groups, MonthGroup{Year: y, Month: m})
		}
		last := len(groups) - 1
		groups[last].Tasks = append(groups[last].Tasks, t)
	}
	return groups
}
