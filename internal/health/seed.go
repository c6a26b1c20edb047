package health

import (
	"fmt"
	"math/rand"
	"time"
)

// SeedDemo fills an empty store with a plausible dataset covering the last
// `days` days, so the dashboard has something to show on first run. A store
// that already holds samples is left alone.
func (s *Store) SeedDemo(days int) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&count); err != nil {
		return fmt.Errorf("seed demo: %w", err)
	}
	if count > 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	for d := 0; d < days; d++ {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, -d)

		// Steps and energy arrive as hourly buckets through the waking day.
		for h := 8; h < 22; h++ {
			ts := day.Add(time.Duration(h) * time.Hour)
			if ts.After(now) {
				continue
			}
			if _, err := s.AddSample(KindSteps, ts, ts, float64(200+rng.Intn(900))); err != nil {
				return err
			}
			if _, err := s.AddSample(KindActiveEnergy, ts, ts, 15+rng.Float64()*40); err != nil {
				return err
			}
		}

		// A handful of heart-rate readings.
		for i := 0; i < 6; i++ {
			ts := day.Add(time.Duration(9+i*2) * time.Hour)
			if ts.After(now) {
				continue
			}
			if _, err := s.AddSample(KindHeartRate, ts, ts, float64(58+rng.Intn(40))); err != nil {
				return err
			}
		}

		// One main sleep interval starting late the previous evening,
		// attributed to its start day, occasionally split in two.
		bed := day.Add(-time.Duration(60+rng.Intn(90)) * time.Minute)
		mid := bed.Add(time.Duration(3+rng.Intn(2)) * time.Hour)
		wake := day.Add(time.Duration(6*60+rng.Intn(120)) * time.Minute)
		if wake.Before(now) {
			if rng.Intn(3) == 0 {
				if _, err := s.AddSample(KindSleep, bed, mid, 0); err != nil {
					return err
				}
				if _, err := s.AddSample(KindSleep, mid.Add(20*time.Minute), wake, 0); err != nil {
					return err
				}
			} else {
				if _, err := s.AddSample(KindSleep, bed, wake, 0); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
