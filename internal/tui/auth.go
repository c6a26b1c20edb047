package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jkarlsen/vitals/internal/health"
)

// authModel is the authorization gate. It checks the recorded grant status
// without prompting, and when no decision is on record yet it shows a
// one-time confirm form. A recorded decision is final for the install:
// re-requesting returns the cached answer instead of prompting again.
type authModel struct {
	store  *health.Store
	status health.AuthStatus

	formActive bool
	form       *huh.Form
	allow      *bool
}

func newAuthModel(s *health.Store) authModel {
	allow := false
	return authModel{
		store: s,
		allow: &allow,
	}
}

func (a authModel) granted() bool {
	return a.status == health.AuthGranted
}

// checkCmd is the non-prompting status check, run on startup. An
// unavailable store reads as denied; there is nothing to ask the user.
func (a authModel) checkCmd() tea.Cmd {
	return func() tea.Msg {
		if !a.store.Available() {
			return authStatusMsg{
				status: health.AuthDenied,
				err:    fmt.Errorf("health data store unavailable"),
			}
		}
		status, err := a.store.AuthorizationStatus(health.Kinds)
		return authStatusMsg{status: status, err: err}
	}
}

// requestAccess opens the grant prompt, unless a decision already exists,
// in which case the cached decision is simply re-read.
func (a authModel) requestAccess() (authModel, tea.Cmd) {
	if !a.store.Available() {
		return a, a.checkCmd()
	}
	decided, err := a.store.HasDecision(health.Kinds)
	if err != nil || decided {
		return a, a.checkCmd()
	}

	*a.allow = false
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow vitals to read Health data?").
				Description("Steps, active energy, sleep and heart rate.").
				Affirmative("Allow").
				Negative("Don't allow").
				Value(a.allow),
		),
	).WithShowHelp(true)
	a.formActive = true
	return a, a.form.Init()
}

func (a authModel) update(msg tea.Msg) (authModel, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case authStatusMsg:
		a.status = msg.status
		return a, nil

	case tea.KeyMsg:
		if key := msg.String(); key == "a" || key == "enter" {
			return a.requestAccess()
		}
	}
	return a, nil
}

func (a authModel) updateForm(msg tea.Msg) (authModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		granted := *a.allow
		a.form = nil
		return a, func() tea.Msg {
			status, err := a.store.SetAuthorization(health.Kinds, granted)
			return authStatusMsg{status: status, err: err}
		}
	}

	return a, cmd
}

func (a authModel) view(w int) string {
	if a.formActive && a.form != nil {
		title := titleStyle.Render("Health Access")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", a.form.View()),
		)
	}

	title := titleStyle.Render("Health Access Required")

	var body string
	switch a.status {
	case health.AuthDenied:
		body = errorStyle.Render("Access to health data was denied or is unavailable.")
	default:
		body = mutedStyle.Render("vitals needs permission to read your health data.")
	}

	hint := mutedStyle.Render("Press a to request access")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint),
	)
}
