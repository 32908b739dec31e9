package setupview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/theme"
)

// SetupSavedMsg is dispatched when the setup form is submitted.
type SetupSavedMsg struct {
	StartDate *time.Time
	MoveDate  *time.Time
	EndDate   *time.Time
	Team      []string
}

// SetupCancelMsg is dispatched when the user cancels the form.
type SetupCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	startDate string
	moveDate  string
	endDate   string
	team      string
}

// Model is the Bubble Tea model for the trip setup form: relocation
// window dates and the people steps can be assigned to.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new setup form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form from the current settings.
func (m *Model) Start(s model.Settings) tea.Cmd {
	m.fb.startDate = formatDate(s.RelocationStartDate)
	m.fb.moveDate = formatDate(s.RelocationDate)
	m.fb.endDate = formatDate(s.RelocationEndDate)
	m.fb.team = strings.Join(s.TeamMembers, ", ")
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the setup form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return SetupCancelMsg{} }
	}

	return m, cmd
}

// View renders the setup form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Trip Setup") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Planning starts").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.startDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Moving day").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.moveDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Settled by").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.endDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Team").
				Placeholder("comma-separated names").
				Value(&m.fb.team),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SetupSavedMsg{
		StartDate: parseDate(m.fb.startDate),
		MoveDate:  parseDate(m.fb.moveDate),
		EndDate:   parseDate(m.fb.endDate),
		Team:      parseTeam(m.fb.team),
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	normalized := model.DateOnly(t)
	return &normalized
}

// parseTeam splits a comma-separated member list, dropping blanks and
// duplicates while preserving first-seen order.
func parseTeam(s string) []string {
	var team []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		team = append(team, name)
	}
	return team
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
