package tui

import (
	"fmt"
	"time"

	"github.com/jkarlsen/vitals/internal/health"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHistory
	viewSettings
)

var viewNames = []string{"Dashboard", "History", "Settings"}

// --- Messages ---
//
// Every health-store query runs as a tea.Cmd and reports back through one of
// these messages, so all view-model writes happen on the update loop. Each
// metric query owns exactly one message type and one view-model field; a
// failed query carries its error and leaves the field at its previous value.

type authStatusMsg struct {
	status health.AuthStatus
	err    error
}

type stepsResultMsg struct {
	count int
	err   error
}

type energyResultMsg struct {
	kcal float64
	err  error
}

type sleepResultMsg struct {
	hours    float64
	bedTime  *time.Time
	wakeTime *time.Time
	err      error
}

type heartRateResultMsg struct {
	bpm *float64
	err error
}

type prefsResultMsg struct {
	stepGoal   int
	sleepGoal  float64
	energyUnit string
}

type historyDataMsg struct {
	days     []health.DailyMetrics
	from, to time.Time
	err      error
}

type settingsDataMsg struct {
	settings []health.Setting
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatHours(hours float64) string {
	h := int(hours)
	m := int(hours*60) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Local().Format("15:04")
}

func formatBPM(bpm *float64) string {
	if bpm == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f bpm", *bpm)
}

// kcalIn renders an energy value in the configured display unit.
func kcalIn(kcal float64, unit string) string {
	if unit == "kJ" {
		return fmt.Sprintf("%.0f kJ", kcal*4.184)
	}
	return fmt.Sprintf("%.0f kcal", kcal)
}

func startOfDay(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}
