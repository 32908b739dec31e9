package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

// GetSettings returns the owner's settings singleton. A missing row yields
// zero-value settings rather than an error: a fresh account simply has no
// relocation window configured yet.
func (s *SQLiteStore) GetSettings(ctx context.Context, ownerID string) (model.Settings, error) {
	var (
		settings   model.Settings
		teamJSON   string
		gotOwner   string
		updatedAt  time.Time
		start, mid *time.Time
		end        *time.Time
	)

	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM settings WHERE owner_id = ?", ownerID)
	err := row.Scan(&gotOwner, &start, &mid, &end, &teamJSON, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return model.Settings{}, nil
		}
		return model.Settings{}, fmt.Errorf("getting settings for %s: %w", ownerID, err)
	}

	settings.RelocationStartDate = normalizeDate(start)
	settings.RelocationDate = normalizeDate(mid)
	settings.RelocationEndDate = normalizeDate(end)

	if teamJSON != "" {
		if err := json.Unmarshal([]byte(teamJSON), &settings.TeamMembers); err != nil {
			return model.Settings{}, fmt.Errorf("unmarshaling team members: %w", err)
		}
	}

	return settings, nil
}

// SaveSettings upserts the owner's settings singleton.
func (s *SQLiteStore) SaveSettings(ctx context.Context, ownerID string, settings model.Settings) error {
	team, err := json.Marshal(settings.TeamMembers)
	if err != nil {
		return fmt.Errorf("marshaling team members: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (
			owner_id, relocation_start_date, relocation_date,
			relocation_end_date, team_members, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		ownerID,
		normalizeDate(settings.RelocationStartDate),
		normalizeDate(settings.RelocationDate),
		normalizeDate(settings.RelocationEndDate),
		string(team), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving settings for %s: %w", ownerID, err)
	}
	return nil
}

// normalizeDate truncates a nullable timestamp to UTC midnight.
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := model.DateOnly(t.UTC())
	return &d
}
