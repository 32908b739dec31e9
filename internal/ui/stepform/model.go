package stepform

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

// StepSavedMsg is dispatched when the form is submitted. TaskID names
// the step being changed; the caller turns Values into field patches
// applied through the dashboard controller.
type StepSavedMsg struct {
	TaskID string
	Values Values
}

// StepFormCancelMsg is dispatched when the user cancels the form.
type StepFormCancelMsg struct{}

// Values holds the submitted field values.
type Values struct {
	Title           string
	Phase           string
	Notes           string
	BudgetEstimated float64
	BudgetActual    float64
	BudgetOptional  float64
	Status          string
	Date            *time.Time
	Assignee        string
}

// phases offered by the phase selector.
var phases = []string{
	"Planning",
	"Paperwork",
	"Housing",
	"Logistics",
	"Arrival",
	"Settling in",
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	phase     string
	notes     string
	estimated string
	actual    string
	optional  string
	status    string
	date      string
	assignee  string
}

// Model is the Bubble Tea model for the step create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	team     []string
	width    int
	height   int
}

// New creates a new step form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{phase: phases[0], status: model.StatusTodo},
		width:  width,
		height: height,
	}
}

// SetTeam sets the team members offered by the assignee selector.
func (m *Model) SetTeam(team []string) {
	m.team = team
}

// StartCreate initializes the form for a freshly created placeholder
// step, so the user fills in its fields right away.
func (m *Model) StartCreate(t model.Task) tea.Cmd {
	m.start(t, false)
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing step.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.start(t, true)
	return m.form.Init()
}

func (m *Model) start(t model.Task, edit bool) {
	m.editMode = edit
	m.editID = t.ID
	m.fb.title = t.Title
	m.fb.phase = t.Phase
	m.fb.notes = t.Notes
	m.fb.estimated = formatAmount(t.BudgetEstimated)
	m.fb.actual = formatAmount(t.BudgetActual)
	m.fb.optional = formatAmount(t.BudgetOptional)
	m.fb.status = t.Status
	if t.Date != nil {
		m.fb.date = t.Date.Format("2006-01-02")
	} else {
		m.fb.date = ""
	}
	m.fb.assignee = t.Assignee
	m.form = m.buildForm()
}

// Update handles messages for the step form.
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
		return m, func() tea.Msg { return StepFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the step form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Step"
	if m.editMode {
		titleText = "Edit Step"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

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
	phaseOpts := make([]huh.Option[string], len(phases))
	for i, p := range phases {
		phaseOpts[i] = huh.NewOption(p, p)
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to happen?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewSelect[string]().
			Title("Phase").
			Options(phaseOpts...).
			Value(&m.fb.phase),
		huh.NewText().
			Title("Notes").
			Placeholder("Optional details...").
			Value(&m.fb.notes),
		huh.NewInput().
			Title("Estimated Budget").
			Placeholder("0,00").
			Value(&m.fb.estimated),
		huh.NewInput().
			Title("Actual Spent").
			Placeholder("0,00").
			Value(&m.fb.actual),
		huh.NewInput().
			Title("Optional Budget").
			Placeholder("0,00").
			Value(&m.fb.optional),
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.date).
			Validate(validateOptionalDate),
		m.assigneeField(),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption(model.StatusLabel(model.StatusTodo), model.StatusTodo),
				huh.NewOption(model.StatusLabel(model.StatusInProgress), model.StatusInProgress),
				huh.NewOption(model.StatusLabel(model.StatusDone), model.StatusDone),
			).
			Value(&m.fb.status),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("Unassigned", ""),
	}
	for _, member := range m.team {
		opts = append(opts, huh.NewOption(member, member))
	}
	return huh.NewSelect[string]().
		Title("Assignee").
		Options(opts...).
		Value(&m.fb.assignee)
}

func (m Model) handleSubmit() tea.Cmd {
	values := Values{
		Title:           strings.TrimSpace(m.fb.title),
		Phase:           m.fb.phase,
		Notes:           m.fb.notes,
		BudgetEstimated: model.ParseAmount(m.fb.estimated),
		BudgetActual:    model.ParseAmount(m.fb.actual),
		BudgetOptional:  model.ParseAmount(m.fb.optional),
		Status:          m.fb.status,
		Assignee:        m.fb.assignee,
	}

	if d := strings.TrimSpace(m.fb.date); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			normalized := model.DateOnly(t)
			values.Date = &normalized
		}
	}

	id := m.editID
	return func() tea.Msg {
		return StepSavedMsg{TaskID: id, Values: values}
	}
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

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
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
