package carousel

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/keys"
	"github.com/RuDeeVelops/ptIt-relo/tests/testutil"
)

func TestToggleOnStaleCardSurfacesError(t *testing.T) {
	provider := identity.NewStaticProvider(identity.Account{ID: "acct-1", Name: "Ru"})
	ctrl := dashboard.New(testutil.NewTestStore(t), provider, zerolog.Nop())
	ctrl.Start()
	t.Cleanup(ctrl.Close)

	_, err := provider.SignIn(context.Background())
	require.NoError(t, err)
	require.NoError(t, ctrl.CreateTask())

	m := New(ctrl, keys.DefaultKeyMap(), 80, 24)
	_, ok := m.current()
	require.True(t, ok)

	// The card still shows the old session's step after sign-out.
	require.NoError(t, provider.SignOut())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Contains(t, m.StatusHint(), "could not update step")

	// The next accepted key clears the hint.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	assert.Empty(t, m.StatusHint())
}
