package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jkarlsen/vitals/internal/health"
)

type dayRecord struct {
	Date             string   `json:"date"`
	Steps            int      `json:"steps"`
	ActiveEnergyKcal float64  `json:"active_energy_kcal"`
	SleepHours       float64  `json:"sleep_hours"`
	BedTime          *string  `json:"bed_time,omitempty"`
	WakeTime         *string  `json:"wake_time,omitempty"`
	AvgHeartRateBPM  *float64 `json:"avg_heart_rate_bpm,omitempty"`
}

func ToJSON(days []health.DailyMetrics, path string) error {
	records := make([]dayRecord, 0, len(days))
	for _, d := range days {
		records = append(records, dayRecord{
			Date:             d.Date.Format("2006-01-02"),
			Steps:            d.StepCount,
			ActiveEnergyKcal: d.ActiveEnergyKcal,
			SleepHours:       d.SleepHours,
			BedTime:          timePtr(d.BedTime),
			WakeTime:         timePtr(d.WakeTime),
			AvgHeartRateBPM:  d.AvgHeartRateBPM,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Local().Format(time.RFC3339)
	return &s
}
