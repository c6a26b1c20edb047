package health

import "time"

// SampleKind identifies one of the supported health metrics.
type SampleKind int

const (
	KindSteps SampleKind = iota
	KindActiveEnergy
	KindSleep
	KindHeartRate
)

// Kinds lists every metric the dashboard reads, in display order.
var Kinds = []SampleKind{KindSteps, KindActiveEnergy, KindSleep, KindHeartRate}

func (k SampleKind) String() string {
	switch k {
	case KindSteps:
		return "steps"
	case KindActiveEnergy:
		return "active-energy"
	case KindSleep:
		return "sleep"
	case KindHeartRate:
		return "heart-rate"
	}
	return "unknown"
}

// Unit returns the display unit for the kind's values.
func (k SampleKind) Unit() string {
	switch k {
	case KindSteps:
		return "count"
	case KindActiveEnergy:
		return "kcal"
	case KindSleep:
		return "hours"
	case KindHeartRate:
		return "bpm"
	}
	return ""
}

// Sample is a single measurement. End equals Start for instantaneous
// readings (steps, energy, heart rate); sleep samples span an interval.
type Sample struct {
	ID        int64
	Kind      SampleKind
	Start     time.Time
	End       time.Time
	Value     float64
	CreatedAt time.Time
}

// AuthStatus is the session authorization state for reading health data.
type AuthStatus int

const (
	AuthUnknown AuthStatus = iota
	AuthDenied
	AuthGranted
)

func (a AuthStatus) String() string {
	switch a {
	case AuthDenied:
		return "denied"
	case AuthGranted:
		return "granted"
	}
	return "unknown"
}

// DailyMetrics is the aggregated view of one calendar day. Heart rate and
// sleep boundaries are nil when the day has no samples of that kind; a
// recorded zero and "nothing recorded" are distinct.
type DailyMetrics struct {
	Date             time.Time // local midnight
	StepCount        int
	ActiveEnergyKcal float64
	SleepHours       float64
	AvgHeartRateBPM  *float64
	BedTime          *time.Time
	WakeTime         *time.Time
}

// SampleFilter selects samples for range queries. From/To bound the sample
// Start as a half-open interval [From, To).
type SampleFilter struct {
	Kind  *SampleKind
	From  *time.Time
	To    *time.Time
	Limit int
}

type Setting struct {
	Key   string
	Value string
}
