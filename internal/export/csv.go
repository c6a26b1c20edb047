package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/jkarlsen/vitals/internal/health"
)

func ToCSV(days []health.DailyMetrics, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Steps", "Active Energy (kcal)", "Sleep (h)", "Bed Time", "Wake Time", "Avg Heart Rate (bpm)"}); err != nil {
		return err
	}

	for _, d := range days {
		row := []string{
			d.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", d.StepCount),
			fmt.Sprintf("%.1f", d.ActiveEnergyKcal),
			fmt.Sprintf("%.2f", d.SleepHours),
			clockOrEmpty(d.BedTime),
			clockOrEmpty(d.WakeTime),
			bpmOrEmpty(d.AvgHeartRateBPM),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func clockOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

func bpmOrEmpty(bpm *float64) string {
	if bpm == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *bpm)
}
