package model

import "time"

// Settings is the per-owner singleton holding the relocation planning
// window and the list of people tasks can be assigned to.
type Settings struct {
	// RelocationStartDate and RelocationEndDate bound the planning window.
	RelocationStartDate *time.Time `json:"relocation_start_date,omitempty" db:"relocation_start_date"`

	// RelocationDate is the pivotal "move day" the timeline is organized
	// around. Nil means no relocation day is configured yet.
	RelocationDate *time.Time `json:"relocation_date,omitempty" db:"relocation_date"`

	RelocationEndDate *time.Time `json:"relocation_end_date,omitempty" db:"relocation_end_date"`

	// TeamMembers is an ordered set of assignee names. Uniqueness is
	// enforced by the dashboard controller, not the store.
	TeamMembers []string `json:"team_members" db:"-"`
}

// HasMember reports whether name is already in the team list.
func (s Settings) HasMember(name string) bool {
	for _, m := range s.TeamMembers {
		if m == name {
			return true
		}
	}
	return false
}
