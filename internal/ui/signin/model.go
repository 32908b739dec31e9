package signin

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/keys"
	"github.com/RuDeeVelops/ptIt-relo/internal/theme"
)

// SignInDoneMsg is sent when a sign-in attempt finishes. Err is nil on
// success; auth failures are shown on this screen, never fatal.
type SignInDoneMsg struct {
	Err error
}

// Model is the sign-in screen shown while no account is resolved.
type Model struct {
	provider identity.Provider
	keys     *keys.KeyMap
	busy     bool
	err      error
	width    int
	height   int
}

// New creates a new sign-in screen model.
func New(p identity.Provider, k *keys.KeyMap, width, height int) Model {
	return Model{
		provider: p,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the sign-in screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SignInDoneMsg:
		m.busy = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if key.Matches(msg, m.keys.Select) {
			m.busy = true
			m.err = nil
			return m, m.signIn()
		}
	}
	return m, nil
}

// signIn returns a command that runs the provider's sign-in flow.
func (m Model) signIn() tea.Cmd {
	p := m.provider
	return func() tea.Msg {
		_, err := p.SignIn(context.Background())
		return SignInDoneMsg{Err: err}
	}
}

// failureLine distinguishes a sign-in the user refused or abandoned from
// an unexpected error, so the retry hint reads sensibly for both.
func failureLine(err error) string {
	if identity.IsAuthError(err) {
		return "Sign-in was not completed: " + err.Error()
	}
	return "Sign-in failed: " + err.Error()
}

// View renders the sign-in screen.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		Render("Portugal, here we go")

	var body string
	switch {
	case m.busy:
		body = theme.HelpStyle.Render("Waiting for the browser sign-in to finish...")
	case m.err != nil:
		body = theme.ErrorStyle.Render(failureLine(m.err)) +
			"\n\n" + theme.HelpStyle.Render("Press enter to try again.")
	default:
		body = theme.HelpStyle.Render("Press enter to sign in with your browser.")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", body)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
