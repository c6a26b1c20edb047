package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jkarlsen/vitals/internal/health"
	"github.com/jkarlsen/vitals/internal/metrics"
)

// historyModel renders the rolling history window: a sleep-hours bar chart
// plus a per-day table of all four metrics, most recent day first.
type historyModel struct {
	store  *health.Store
	width  int
	height int

	days     []health.DailyMetrics
	from, to time.Time
	offset   int // windows back from today (0 = current)

	energyUnit string

	chart barchart.Model
}

func newHistoryModel(s *health.Store) historyModel {
	return historyModel{
		store:      s,
		energyUnit: "kcal",
		chart:      barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

// refresh queries every sample in the current window in one command and
// aggregates off the update loop; only the finished historyDataMsg touches
// model state.
func (h historyModel) refresh() tea.Cmd {
	offset := h.offset
	return func() tea.Msg {
		window := 30
		if v, err := h.store.GetSetting("history_days"); err == nil {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				window = n
			}
		}

		now := time.Now()
		to := now.AddDate(0, 0, -window*offset)
		from := to.AddDate(0, 0, -window)

		samples, err := h.store.ListSamples(health.SampleFilter{From: &from, To: &to})
		if err != nil {
			return historyDataMsg{err: err}
		}
		return historyDataMsg{
			days: metrics.BuildHistory(samples),
			from: from,
			to:   to,
		}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.err != nil {
			return h, nil
		}
		h.days = msg.days
		h.from = msg.from
		h.to = msg.to
		h.buildChart()
		return h, nil

	case prefsResultMsg:
		h.energyUnit = msg.energyUnit
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	sleepStyle := lipgloss.NewStyle().Foreground(colorSecondary)

	// Oldest day on the left; h.days arrives most-recent-first.
	var bars []barchart.BarData
	for i := len(h.days) - 1; i >= 0; i-- {
		d := h.days[i]
		bars = append(bars, barchart.BarData{
			Label: d.Date.Format("02"),
			Values: []barchart.BarValue{{
				Name:  "sleep",
				Value: d.SleepHours,
				Style: sleepStyle,
			}},
		})
	}

	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	dateLabel := ""
	if !h.from.IsZero() {
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s — %s",
			h.from.Format("Jan 02"), h.to.Format("Jan 02, 2006")))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render("sleep hours per night"), "  ", dateLabel,
	)

	chartView := h.chart.View()
	tableView := h.renderTable(w)
	nav := mutedStyle.Render("  ←/→: older/newer window")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	if len(h.days) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %8s %10s %9s %7s %7s %8s",
		"Date", "Steps", "Energy", "Sleep", "Bed", "Wake", "Avg HR"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 68))))

	limit := len(h.days)
	maxRows := h.height - 20
	if maxRows > 2 && limit > maxRows {
		limit = maxRows
	}

	for _, d := range h.days[:limit] {
		rows = append(rows, fmt.Sprintf("  %-12s %8d %10s %9s %7s %7s %8s",
			d.Date.Format("Mon Jan 02"),
			d.StepCount,
			kcalIn(d.ActiveEnergyKcal, h.energyUnit),
			formatHours(d.SleepHours),
			formatClock(d.BedTime),
			formatClock(d.WakeTime),
			formatBPM(d.AvgHeartRateBPM),
		))
	}
	if limit < len(h.days) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more days", len(h.days)-limit)))
	}

	return strings.Join(rows, "\n")
}
