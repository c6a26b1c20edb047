// Package metrics aggregates raw health samples into per-day dashboard
// values. Everything here is a pure function over already-fetched samples;
// querying and state live elsewhere.
package metrics

import (
	"sort"
	"time"

	"github.com/jkarlsen/vitals/internal/health"
)

// DayOf truncates t to local midnight. It is the grouping key for all
// per-day aggregation: a sample belongs to the calendar day its Start falls
// on, so a sleep interval 23:50–06:10 counts entirely toward the first day.
func DayOf(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}

// SumSteps sums step-count sample values, truncating to an integer.
func SumSteps(samples []health.Sample) int {
	var total float64
	for _, s := range samples {
		if s.Kind == health.KindSteps {
			total += s.Value
		}
	}
	return int(total)
}

// SumEnergy sums active-energy sample values in kcal.
func SumEnergy(samples []health.Sample) float64 {
	var total float64
	for _, s := range samples {
		if s.Kind == health.KindActiveEnergy {
			total += s.Value
		}
	}
	return total
}

// AverageHeartRate returns the arithmetic mean of heart-rate values, or nil
// when there are none.
func AverageHeartRate(samples []health.Sample) *float64 {
	var total float64
	var n int
	for _, s := range samples {
		if s.Kind == health.KindHeartRate {
			total += s.Value
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := total / float64(n)
	return &avg
}

// SleepHoursForDay sums (End-Start) in hours across sleep samples whose
// Start falls on day. Overlapping intervals on the same day are summed
// independently; the overlap is double-counted. That matches what the
// health store itself reports and is deliberately not deduplicated here.
func SleepHoursForDay(samples []health.Sample, day time.Time) float64 {
	key := DayOf(day)
	var hours float64
	for _, s := range samples {
		if s.Kind != health.KindSleep {
			continue
		}
		if !DayOf(s.Start).Equal(key) {
			continue
		}
		hours += s.End.Sub(s.Start).Hours()
	}
	return hours
}

// GroupSleepByDay partitions sleep samples by the local calendar day of
// their Start and computes per-day totals: BedTime is the earliest start,
// WakeTime the latest end, SleepHours the plain duration sum (gaps between
// samples are not bridged, so SleepHours is not WakeTime minus BedTime).
// Days are returned most-recent-first.
func GroupSleepByDay(samples []health.Sample) []health.DailyMetrics {
	byDay := make(map[time.Time]*health.DailyMetrics)

	for _, s := range samples {
		if s.Kind != health.KindSleep {
			continue
		}
		day := DayOf(s.Start)
		dm, ok := byDay[day]
		if !ok {
			dm = &health.DailyMetrics{Date: day}
			byDay[day] = dm
		}
		dm.SleepHours += s.End.Sub(s.Start).Hours()

		start, end := s.Start, s.End
		if dm.BedTime == nil || start.Before(*dm.BedTime) {
			dm.BedTime = &start
		}
		if dm.WakeTime == nil || end.After(*dm.WakeTime) {
			dm.WakeTime = &end
		}
	}

	days := make([]health.DailyMetrics, 0, len(byDay))
	for _, dm := range byDay {
		days = append(days, *dm)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// BuildHistory partitions samples of every kind by local calendar day and
// merges them into one DailyMetrics per day: step and energy sums, heart
// rate average, and the sleep totals from GroupSleepByDay. Days are ordered
// most-recent-first.
func BuildHistory(samples []health.Sample) []health.DailyMetrics {
	type hrAcc struct {
		total float64
		n     int
	}
	byDay := make(map[time.Time]*health.DailyMetrics)
	hr := make(map[time.Time]*hrAcc)
	steps := make(map[time.Time]float64)

	dayFor := func(t time.Time) *health.DailyMetrics {
		day := DayOf(t)
		dm, ok := byDay[day]
		if !ok {
			dm = &health.DailyMetrics{Date: day}
			byDay[day] = dm
		}
		return dm
	}

	for _, s := range samples {
		switch s.Kind {
		case health.KindSteps:
			dayFor(s.Start)
			steps[DayOf(s.Start)] += s.Value
		case health.KindActiveEnergy:
			dayFor(s.Start).ActiveEnergyKcal += s.Value
		case health.KindHeartRate:
			day := DayOf(s.Start)
			dayFor(s.Start)
			acc, ok := hr[day]
			if !ok {
				acc = &hrAcc{}
				hr[day] = acc
			}
			acc.total += s.Value
			acc.n++
		case health.KindSleep:
			dm := dayFor(s.Start)
			dm.SleepHours += s.End.Sub(s.Start).Hours()
			start, end := s.Start, s.End
			if dm.BedTime == nil || start.Before(*dm.BedTime) {
				dm.BedTime = &start
			}
			if dm.WakeTime == nil || end.After(*dm.WakeTime) {
				dm.WakeTime = &end
			}
		}
	}

	for day, acc := range hr {
		avg := acc.total / float64(acc.n)
		byDay[day].AvgHeartRateBPM = &avg
	}
	for day, total := range steps {
		byDay[day].StepCount = int(total)
	}

	days := make([]health.DailyMetrics, 0, len(byDay))
	for _, dm := range byDay {
		days = append(days, *dm)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// BuildDay assembles one day's metrics from per-kind sample slices.
func BuildDay(date time.Time, steps, energy, sleep, heartRate []health.Sample) health.DailyMetrics {
	return health.DailyMetrics{
		Date:             DayOf(date),
		StepCount:        SumSteps(steps),
		ActiveEnergyKcal: SumEnergy(energy),
		SleepHours:       SleepHoursForDay(sleep, date),
		AvgHeartRateBPM:  AverageHeartRate(heartRate),
	}
}
