package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jkarlsen/vitals/internal/health"
	"github.com/jkarlsen/vitals/internal/metrics"
)

// dashboardModel holds today's view-model. Each metric field is written by
// exactly one query's result message; queries run concurrently with no
// completion order and a failed query leaves its field at the prior value.
type dashboardModel struct {
	store  *health.Store
	width  int
	height int

	stepCount  int
	energyKcal float64
	sleepHours float64
	bedTime    *time.Time
	wakeTime   *time.Time
	avgHR      *float64

	stepGoal   int
	sleepGoal  float64
	energyUnit string

	pending int
	spin    spinner.Model
}

func newDashboardModel(s *health.Store) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return dashboardModel{
		store:      s,
		stepGoal:   10000,
		sleepGoal:  8,
		energyUnit: "kcal",
		spin:       sp,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// fetchToday issues the four metric queries for [start of local day, now),
// each as its own command, plus one read of the display preferences. The
// queries are independent: they complete in any order and a failure in one
// never blocks or invalidates the others.
func (d *dashboardModel) fetchToday() tea.Cmd {
	now := time.Now()
	from := startOfDay(now)

	d.pending = 4
	return tea.Batch(
		d.fetchSteps(from, now),
		d.fetchEnergy(from, now),
		d.fetchSleep(from, now),
		d.fetchHeartRate(from, now),
		d.fetchPrefs(),
	)
}

func (d dashboardModel) fetchSteps(from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		total, err := d.store.SumValues(health.KindSteps, from, to)
		return stepsResultMsg{count: int(total), err: err}
	}
}

func (d dashboardModel) fetchEnergy(from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		total, err := d.store.SumValues(health.KindActiveEnergy, from, to)
		return energyResultMsg{kcal: total, err: err}
	}
}

func (d dashboardModel) fetchSleep(from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		kind := health.KindSleep
		samples, err := d.store.ListSamples(health.SampleFilter{Kind: &kind, From: &from, To: &to})
		if err != nil {
			return sleepResultMsg{err: err}
		}
		msg := sleepResultMsg{hours: metrics.SleepHoursForDay(samples, to)}
		if days := metrics.GroupSleepByDay(samples); len(days) > 0 {
			msg.bedTime = days[0].BedTime
			msg.wakeTime = days[0].WakeTime
		}
		return msg
	}
}

func (d dashboardModel) fetchHeartRate(from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		avg, err := d.store.AverageValue(health.KindHeartRate, from, to)
		return heartRateResultMsg{bpm: avg, err: err}
	}
}

func (d dashboardModel) fetchPrefs() tea.Cmd {
	return func() tea.Msg {
		msg := prefsResultMsg{stepGoal: 10000, sleepGoal: 8, energyUnit: "kcal"}
		if v, err := d.store.GetSetting("step_goal"); err == nil {
			if n, err := strconv.Atoi(v); err == nil {
				msg.stepGoal = n
			}
		}
		if v, err := d.store.GetSetting("sleep_goal_hours"); err == nil {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				msg.sleepGoal = f
			}
		}
		if v, err := d.store.GetSetting("energy_unit"); err == nil {
			msg.energyUnit = v
		}
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stepsResultMsg:
		if d.pending > 0 {
			d.pending--
		}
		if msg.err == nil {
			d.stepCount = msg.count
		}
		return d, nil

	case energyResultMsg:
		if d.pending > 0 {
			d.pending--
		}
		if msg.err == nil {
			d.energyKcal = msg.kcal
		}
		return d, nil

	case sleepResultMsg:
		if d.pending > 0 {
			d.pending--
		}
		if msg.err == nil {
			d.sleepHours = msg.hours
			d.bedTime = msg.bedTime
			d.wakeTime = msg.wakeTime
		}
		return d, nil

	case heartRateResultMsg:
		if d.pending > 0 {
			d.pending--
		}
		if msg.err == nil {
			d.avgHR = msg.bpm
		}
		return d, nil

	case prefsResultMsg:
		d.stepGoal = msg.stepGoal
		d.sleepGoal = msg.sleepGoal
		d.energyUnit = msg.energyUnit
		return d, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spin, cmd = d.spin.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d dashboardModel) loading() bool {
	return d.pending > 0
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	header := titleStyle.Render("Today") + "  " +
		mutedStyle.Render(time.Now().Format("Monday, Jan 02"))
	if d.loading() {
		header += "  " + d.spin.View()
	}

	cardWidth := contentWidth/2 - 2
	if cardWidth < 24 {
		cardWidth = 24
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderStepsCard(cardWidth),
		d.renderEnergyCard(cardWidth),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderSleepCard(cardWidth),
		d.renderHeartRateCard(cardWidth),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		top,
		bottom,
	)
}

func (d dashboardModel) renderStepsCard(w int) string {
	title := mutedStyle.Render("STEPS")
	value := metricValueStyle.Render(fmt.Sprintf("%d", d.stepCount))

	goalLine := mutedStyle.Render(fmt.Sprintf("goal %d", d.stepGoal))
	if d.stepGoal > 0 && d.stepCount >= d.stepGoal {
		goalLine = successStyle.Render("goal reached")
	}

	return cardStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, value, goalLine),
	)
}

func (d dashboardModel) renderEnergyCard(w int) string {
	title := mutedStyle.Render("ACTIVE ENERGY")
	value := metricValueStyle.Render(kcalIn(d.energyKcal, d.energyUnit))

	return cardStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, value, ""),
	)
}

func (d dashboardModel) renderSleepCard(w int) string {
	title := mutedStyle.Render("SLEEP")
	value := metricValueStyle.Render(formatHours(d.sleepHours))

	detail := mutedStyle.Render("no sleep recorded")
	if d.bedTime != nil {
		detail = mutedStyle.Render(fmt.Sprintf("%s → %s", formatClock(d.bedTime), formatClock(d.wakeTime)))
	}
	if d.sleepGoal > 0 && d.sleepHours >= d.sleepGoal {
		value = successStyle.Bold(true).Render(formatHours(d.sleepHours))
	}

	return cardStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, value, detail),
	)
}

func (d dashboardModel) renderHeartRateCard(w int) string {
	title := mutedStyle.Render("HEART RATE")
	value := metricValueStyle.Render(formatBPM(d.avgHR))

	detail := mutedStyle.Render("daily average")
	if d.avgHR == nil {
		detail = mutedStyle.Render("no readings today")
	}

	return cardStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, value, detail),
	)
}
