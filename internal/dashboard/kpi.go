package dashboard

import (
	"math"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// KPIs are the aggregate figures shown in the dashboard header and
// included in exports.
type KPIs struct {
	TotalEstimated float64 `json:"total_estimated"`
	TotalActual    float64 `json:"total_actual"`
	TotalOptional  float64 `json:"total_optional"`

	TaskCount int `json:"task_count"`
	DoneCount int `json:"done_count"`

	// PercentDone is round(100 * done / total), 0 for an empty collection.
	PercentDone int `json:"percent_done"`
}

// ComputeKPIs sums the budget fields across all tasks and derives the
// completion percentage.
func ComputeKPIs(tasks []model.Task) KPIs {
	k := KPIs{TaskCount: len(tasks)}
	for _, t := range tasks {
		k.TotalEstimated += t.BudgetEstimated
		k.TotalActual += t.BudgetActual
		k.TotalOptional += t.BudgetOptional
		if t.Status == model.StatusDone {
			k.DoneCount++
		}
	}
	if k.TaskCount > 0 {
		k.PercentDone = int(math.Round(100 * float64(k.DoneCount) / float64(k.TaskCount)))
	}
	return k
}

// KPIs returns the aggregates for the live task collection.
func (c *Controller) KPIs() KPIs {
	return ComputeKPIs(c.Tasks())
}
