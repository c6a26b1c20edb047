package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jkarlsen/vitals/internal/health"
)

func sampleDays() []health.DailyMetrics {
	day1 := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	day2 := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.Local)

	bed := day1.Add(23 * time.Hour)
	wake := day1.Add(30 * time.Hour)
	hr := 68.5

	return []health.DailyMetrics{
		{
			Date:             day2,
			StepCount:        8200,
			ActiveEnergyKcal: 310.4,
			// No sleep or heart rate recorded for this day.
		},
		{
			Date:             day1,
			StepCount:        10450,
			ActiveEnergyKcal: 402.8,
			SleepHours:       7.0,
			BedTime:          &bed,
			WakeTime:         &wake,
			AvgHeartRateBPM:  &hr,
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(sampleDays(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// Header plus one row per day.
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[0][0] != "Date" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	// Day without sleep/heart-rate leaves those cells empty.
	if records[1][0] != "2025-03-11" {
		t.Fatalf("unexpected first data row: %v", records[1])
	}
	if records[1][4] != "" || records[1][6] != "" {
		t.Fatalf("expected empty optional cells, got %v", records[1])
	}

	if records[2][1] != "10450" {
		t.Fatalf("expected step count, got %v", records[2])
	}
	if records[2][6] != "68.5" {
		t.Fatalf("expected heart rate, got %v", records[2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(sampleDays(), filepath.Join(t.TempDir(), "missing", "out.csv"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(sampleDays(), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0]["date"] != "2025-03-11" {
		t.Fatalf("unexpected first record: %v", records[0])
	}
	// Absent optionals are omitted entirely, not emitted as zeros.
	if _, ok := records[0]["avg_heart_rate_bpm"]; ok {
		t.Fatal("expected absent heart rate to be omitted")
	}
	if _, ok := records[0]["bed_time"]; ok {
		t.Fatal("expected absent bed time to be omitted")
	}

	if records[1]["steps"].(float64) != 10450 {
		t.Fatalf("unexpected steps: %v", records[1]["steps"])
	}
	if records[1]["avg_heart_rate_bpm"].(float64) != 68.5 {
		t.Fatalf("unexpected heart rate: %v", records[1]["avg_heart_rate_bpm"])
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty array, got %d", len(records))
	}
}
