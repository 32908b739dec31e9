package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/export"
	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/keys"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/carousel"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/helpview"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/setupview"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/signin"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/stepform"
	"github.com/RuDeeVelops/ptIt-relo/internal/ui/timelineview"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewSignIn ViewState = iota
	ViewTimeline
	ViewCarousel
	ViewStepForm
	ViewSetup
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the dashboard controller.
type Model struct {
	cfg          model.AppConfig
	ctrl         *dashboard.Controller
	provider     identity.Provider
	keys         *keys.KeyMap
	layout       ui.Layout
	currentView  ViewState
	previousView ViewState
	timeline     timelineview.Model
	carousel     carousel.Model
	stepForm     stepform.Model
	setupView    setupview.Model
	helpView     helpview.Model
	signInView   signin.Model
	ready        bool
	statusMsg    string
}

// New creates a new root application model.
func New(cfg model.AppConfig, ctrl *dashboard.Controller, provider identity.Provider) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		cfg:        cfg,
		ctrl:       ctrl,
		provider:   provider,
		keys:       k,
		timeline:   timelineview.New(ctrl, k, 80, 24),
		carousel:   carousel.New(ctrl, k, 80, 24),
		stepForm:   stepform.New(80, 24),
		setupView:  setupview.New(80, 24),
		helpView:   helpview.New(k, 80, 24),
		signInView: signin.New(provider, k, 80, 24),
	}
	if ctrl.Account() == nil {
		m.currentView = ViewSignIn
	} else {
		m.currentView = m.defaultView()
	}
	return m
}

// Init returns the initial command that waits for controller updates.
func (m Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate returns a command that blocks until the controller
// signals a state change.
func (m Model) waitForUpdate() tea.Cmd {
	ch := m.ctrl.Updates()
	return func() tea.Msg {
		<-ch
		return controllerUpdatedMsg{}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.timeline.SetSize(contentWidth, contentHeight)
		m.carousel.SetSize(contentWidth, contentHeight)
		m.stepForm.SetSize(contentWidth, contentHeight)
		m.setupView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.signInView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case controllerUpdatedMsg:
		m.timeline.Reload()
		m.carousel.Reload()
		m.stepForm.SetTeam(m.ctrl.Settings().TeamMembers)

		if m.ctrl.Account() == nil {
			m.currentView = ViewSignIn
		} else if m.currentView == ViewSignIn {
			m.currentView = m.defaultView()
		}
		return m, m.waitForUpdate()

	case stepCreatedMsg:
		if msg.err != nil {
			m.statusMsg = "could not create step: " + msg.err.Error()
			return m, nil
		}
		// The placeholder is already in local state; open it for editing.
		if t, ok := newestTask(m.ctrl.Tasks()); ok {
			m.previousView = m.currentView
			m.currentView = ViewStepForm
			m.timeline.Reload()
			m.carousel.Reload()
			return m, m.stepForm.StartCreate(t)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = "export failed: " + msg.err.Error()
		} else {
			m.statusMsg = "exported to " + msg.path
		}
		return m, nil

	case timelineview.NewStepMsg:
		return m, m.createStep()

	case timelineview.EditStepMsg:
		return m.openEditForm(msg.TaskID)

	case carousel.EditStepMsg:
		return m.openEditForm(msg.TaskID)

	case stepform.StepSavedMsg:
		m.currentView = m.restoredView()
		m.applyStepValues(msg.TaskID, msg.Values)
		m.timeline.Reload()
		m.carousel.Reload()
		return m, nil

	case stepform.StepFormCancelMsg:
		m.currentView = m.restoredView()
		return m, nil

	case setupview.SetupSavedMsg:
		m.currentView = m.restoredView()
		m.applySetup(msg)
		m.timeline.Reload()
		m.stepForm.SetTeam(m.ctrl.Settings().TeamMembers)
		return m, nil

	case setupview.SetupCancelMsg:
		m.currentView = m.restoredView()
		return m, nil

	case signin.SignInDoneMsg:
		var cmd tea.Cmd
		m.signInView, cmd = m.signInView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the focused
// view. Form views only honor quit so that typed text is not swallowed.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.ctrl.Close()
		return true, m, tea.Quit
	}

	inForm := m.currentView == ViewStepForm || m.currentView == ViewSetup
	if inForm {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewTimeline || m.currentView == ViewCarousel || m.currentView == ViewSignIn {
			m.ctrl.Close()
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.restoredView()
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.restoredView()
			return true, m, nil
		}
	}

	if m.currentView == ViewSignIn || m.currentView == ViewHelp {
		return false, m, nil
	}

	switch msg.String() {
	case "tab":
		if m.currentView == ViewTimeline {
			m.carousel.Reload()
			m.currentView = ViewCarousel
		} else {
			m.timeline.Reload()
			m.currentView = ViewTimeline
		}
		return true, m, nil

	case "s":
		m.previousView = m.currentView
		m.currentView = ViewSetup
		return true, m, m.setupView.Start(m.ctrl.Settings())

	case "E":
		return true, m, m.export(export.FormatJSON)

	case "M":
		return true, m, m.export(export.FormatMarkdown)

	case "ctrl+o":
		if err := m.provider.SignOut(); err != nil {
			m.statusMsg = "sign-out failed: " + err.Error()
		}
		return true, m, nil
	}

	return false, m, nil
}

// openEditForm switches to the step form for the given task.
func (m Model) openEditForm(taskID string) (tea.Model, tea.Cmd) {
	for _, t := range m.ctrl.Tasks() {
		if t.ID == taskID {
			m.previousView = m.currentView
			m.currentView = ViewStepForm
			m.stepForm.SetTeam(m.ctrl.Settings().TeamMembers)
			return m, m.stepForm.StartEdit(t)
		}
	}
	return m, nil
}

// defaultView maps the configured default view name to a state.
func (m Model) defaultView() ViewState {
	if m.cfg.Display.DefaultView == "carousel" {
		return ViewCarousel
	}
	return ViewTimeline
}

// restoredView returns the view to fall back to when closing an overlay.
// While signed out there is nothing behind the overlay but the sign-in
// screen.
func (m Model) restoredView() ViewState {
	if m.ctrl.Account() == nil {
		return ViewSignIn
	}
	if m.previousView == ViewCarousel {
		return ViewCarousel
	}
	return ViewTimeline
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewSignIn:
		m.signInView, cmd = m.signInView.Update(msg)
	case ViewTimeline:
		m.timeline, cmd = m.timeline.Update(msg)
	case ViewCarousel:
		m.carousel, cmd = m.carousel.Update(msg)
	case ViewStepForm:
		m.stepForm, cmd = m.stepForm.Update(msg)
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.accountLabel())
	kpiBar := m.layout.RenderKPIBar(m.ctrl.KPIs())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, kpiBar, content, statusBar)
}

// headerTitle combines the project name and route.
func (m Model) headerTitle() string {
	if m.cfg.Route != "" {
		return fmt.Sprintf("%s · %s", m.cfg.Project, m.cfg.Route)
	}
	return m.cfg.Project
}

// accountLabel returns the signed-in identity for the header's right side.
func (m Model) accountLabel() string {
	account := m.ctrl.Account()
	if account == nil {
		return "signed out"
	}
	if account.Name != "" {
		return account.Name
	}
	return account.Email
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSignIn:
		return m.signInView.View()
	case ViewTimeline:
		return m.timeline.View()
	case ViewCarousel:
		return m.carousel.View()
	case ViewStepForm:
		return m.stepForm.View()
	case ViewSetup:
		return m.setupView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if hint := m.timeline.StatusHint(); hint != "" && m.currentView == ViewTimeline {
		return hint
	}
	if hint := m.carousel.StatusHint(); hint != "" && m.currentView == ViewCarousel {
		return hint
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewSignIn:
		return "enter sign in | q quit"
	case ViewStepForm, ViewSetup:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCarousel:
		return "h/l page | x status | e edit | tab timeline | ? help"
	default:
		return "n new | e edit | x status | d delete | J/K move | tab cards | s setup | ? help"
	}
}
