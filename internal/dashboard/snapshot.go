package dashboard

import (
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// Snapshot is a read-only projection of the dashboard state at a point in
// time. Exports serialize it; nothing mutates through it.
type Snapshot struct {
	// Project and Route label the relocation (e.g. "ptIt-relo",
	// "Lisbon -> Milan"); they come from configuration, not task data.
	Project string
	Route   string

	TakenAt  time.Time
	Settings model.Settings
	Tasks    []model.Task
	KPIs     KPIs
}

// Snapshot captures the current tasks, settings, and KPIs.
func (c *Controller) Snapshot(project, route string) Snapshot {
	tasks := c.Tasks()
	return Snapshot{
		Project:  project,
		Route:    route,
		TakenAt:  time.Now().UTC(),
		Settings: c.Settings(),
		Tasks:    tasks,
		KPIs:     ComputeKPIs(tasks),
	}
}
