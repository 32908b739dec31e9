package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/tests/testutil"
)

func newTestApp(t *testing.T) (Model, *identity.StaticProvider) {
	t.Helper()

	provider := identity.NewStaticProvider(identity.Account{ID: "acct-1", Name: "Ru"})
	ctrl := dashboard.New(testutil.NewTestStore(t), provider, zerolog.Nop())
	ctrl.Start()
	t.Cleanup(ctrl.Close)

	return New(model.AppConfig{Project: "our-move"}, ctrl, provider), provider
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	mdl, _ := m.Update(msg)
	next, ok := mdl.(Model)
	require.True(t, ok)
	return next
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStartsOnSignInWhenSignedOut(t *testing.T) {
	m, _ := newTestApp(t)

	assert.Equal(t, ViewSignIn, m.currentView)
}

func TestHelpOverlayRestoresSignInWhileSignedOut(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, keyRune('?'))
	assert.Equal(t, ViewHelp, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewSignIn, m.currentView)
}

func TestHelpOverlayRestoresPreviousViewWhenSignedIn(t *testing.T) {
	m, provider := newTestApp(t)
	_, err := provider.SignIn(context.Background())
	require.NoError(t, err)
	m = press(t, m, controllerUpdatedMsg{})
	require.Equal(t, ViewTimeline, m.currentView)

	m = press(t, m, keyRune('?'))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ViewTimeline, m.currentView)
}
