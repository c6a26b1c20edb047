package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jkarlsen/vitals/internal/health"
)

type settingsModel struct {
	store  *health.Store
	width  int
	height int

	settings   []health.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	historyDays *string
	energyUnit  *string
	stepGoal    *string
	sleepGoal   *string
}

func newSettingsModel(s *health.Store) settingsModel {
	hd, eu, sg, slg := "", "", "", ""
	return settingsModel{
		store:       s,
		historyDays: &hd,
		energyUnit:  &eu,
		stepGoal:    &sg,
		sleepGoal:   &slg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.historyDays = s.getVal("history_days", "30")
	*s.energyUnit = s.getVal("energy_unit", "kcal")
	*s.stepGoal = s.getVal("step_goal", "10000")
	*s.sleepGoal = s.getVal("sleep_goal_hours", "8")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("History window (days)").Value(s.historyDays),
			huh.NewSelect[string]().Title("Energy unit").
				Options(
					huh.NewOption("Kilocalories (kcal)", "kcal"),
					huh.NewOption("Kilojoules (kJ)", "kJ"),
				).Value(s.energyUnit),
		).Title("Display"),
		huh.NewGroup(
			huh.NewInput().Title("Daily step goal").Value(s.stepGoal),
			huh.NewInput().Title("Sleep goal (hours)").Value(s.sleepGoal),
		).Title("Goals"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	if _, err := strconv.Atoi(*s.historyDays); err == nil {
		s.store.SetSetting("history_days", *s.historyDays)
	}
	s.store.SetSetting("energy_unit", *s.energyUnit)
	if _, err := strconv.Atoi(*s.stepGoal); err == nil {
		s.store.SetSetting("step_goal", *s.stepGoal)
	}
	if _, err := strconv.ParseFloat(*s.sleepGoal, 64); err == nil {
		s.store.SetSetting("sleep_goal_hours", *s.sleepGoal)
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "history_days":
		return v + " days"
	case "sleep_goal_hours":
		return v + " hours"
	case "step_goal":
		return v + " steps"
	}
	return v
}
