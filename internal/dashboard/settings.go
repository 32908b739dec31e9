package dashboard

import (
	"context"
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// SetRelocationDates updates the planning window. Dates are truncated to
// day granularity; nil clears a date.
func (c *Controller) SetRelocationDates(start, moveDay, end *time.Time) error {
	return c.mutateSettings(func(s *model.Settings) {
		s.RelocationStartDate = dateOrNil(start)
		s.RelocationDate = dateOrNil(moveDay)
		s.RelocationEndDate = dateOrNil(end)
	})
}

// AddTeamMember appends a name to the team list unless it is already
// present; uniqueness is enforced here, not by the store.
func (c *Controller) AddTeamMember(name string) error {
	return c.mutateSettings(func(s *model.Settings) {
		if name == "" || s.HasMember(name) {
			return
		}
		s.TeamMembers = append(s.TeamMembers, name)
	})
}

// RemoveTeamMember drops a name from the team list, preserving order.
// The filter writes into a fresh slice: settings handed out earlier alias
// the old backing array and must keep reading the team they captured.
func (c *Controller) RemoveTeamMember(name string) error {
	return c.mutateSettings(func(s *model.Settings) {
		out := make([]string, 0, len(s.TeamMembers))
		for _, m := range s.TeamMembers {
			if m != name {
				out = append(out, m)
			}
		}
		s.TeamMembers = out
	})
}

// mutateSettings applies fn to the local settings optimistically, then
// persists them asynchronously. Like task patches, a failed save is
// logged and the local copy stands.
func (c *Controller) mutateSettings(fn func(*model.Settings)) error {
	c.mu.Lock()
	account := c.account
	if account == nil {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	fn(&c.settings)
	snapshot := c.settings
	c.mu.Unlock()
	c.signal()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := c.store.SaveSettings(ctx, account.ID, snapshot); err != nil {
			c.log.Warn().Err(err).Msg("saving settings failed; local state kept")
		}
	}()

	return nil
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := model.DateOnly(*t)
	return &d
}
