package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStatusCycles(t *testing.T) {
	assert.Equal(t, StatusInProgress, NextStatus(StatusTodo))
	assert.Equal(t, StatusDone, NextStatus(StatusInProgress))
	assert.Equal(t, StatusTodo, NextStatus(StatusDone))
}

func TestNextStatusUnknownResetsToTodo(t *testing.T) {
	assert.Equal(t, StatusTodo, NextStatus("blocked"))
	assert.Equal(t, StatusTodo, NextStatus(""))
}

func TestNextStatusThreeStepsIsIdentity(t *testing.T) {
	for _, s := range []string{StatusTodo, StatusInProgress, StatusDone} {
		assert.Equal(t, s, NextStatus(NextStatus(NextStatus(s))))
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "1200", 1200},
		{"decimal point", "89.50", 89.5},
		{"decimal comma", "89,50", 89.5},
		{"surrounding whitespace", "  42.5  ", 42.5},
		{"empty", "", 0},
		{"malformed", "about 50", 0},
		{"negative clamps to zero", "-10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.input))
		})
	}
}

func TestDateOnlyDropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2026, time.February, 1, 23, 45, 12, 999, loc)

	got := DateOnly(in)

	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDateOnlyEqualDaysCompareEqual(t *testing.T) {
	morning := time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 5, 22, 30, 0, 0, time.UTC)

	assert.True(t, DateOnly(morning).Equal(DateOnly(evening)))
}
