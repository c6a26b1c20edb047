package health

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertSample is a test helper for samples at an hour offset from a fixed day.
func insertSample(t *testing.T, s *Store, kind SampleKind, start, end time.Time, value float64) *Sample {
	t.Helper()
	sm, err := s.AddSample(kind, start, end, value)
	if err != nil {
		t.Fatalf("add sample: %v", err)
	}
	return sm
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/vitals.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestDefaultSettingsSeeded(t *testing.T) {
	s := newTestStore(t)
	v, err := s.GetSetting("history_days")
	if err != nil {
		t.Fatal(err)
	}
	if v != "30" {
		t.Fatalf("expected default history_days=30, got %q", v)
	}
}

// ============================================================
// Availability
// ============================================================

func TestAvailable(t *testing.T) {
	s := newTestStore(t)
	if !s.Available() {
		t.Fatal("open store should be available")
	}
}

func TestAvailableAfterClose(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if s.Available() {
		t.Fatal("closed store should not be available")
	}
}

// ============================================================
// Samples
// ============================================================

func TestAddAndGetSample(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	sm := insertSample(t, s, KindSteps, start, start, 500)
	if sm.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if sm.Kind != KindSteps || sm.Value != 500 {
		t.Fatalf("unexpected sample: %+v", sm)
	}
	if !sm.Start.Equal(start) || !sm.End.Equal(start) {
		t.Fatalf("timestamps not round-tripped: %+v", sm)
	}
	if sm.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestAddSampleRejectsInvertedInterval(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	_, err := s.AddSample(KindSleep, start, start.Add(-time.Hour), 0)
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestAddSampleRejectsNegativeValue(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	_, err := s.AddSample(KindSteps, start, start, -5)
	if err == nil {
		t.Fatal("expected error for negative value")
	}
}

func TestGetSampleNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSample(999)
	if err == nil {
		t.Fatal("expected error for missing sample")
	}
}

func TestListSamplesByKindAndRange(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	insertSample(t, s, KindSteps, day.Add(9*time.Hour), day.Add(9*time.Hour), 100)
	insertSample(t, s, KindSteps, day.Add(12*time.Hour), day.Add(12*time.Hour), 200)
	insertSample(t, s, KindHeartRate, day.Add(10*time.Hour), day.Add(10*time.Hour), 70)
	insertSample(t, s, KindSteps, day.AddDate(0, 0, 1), day.AddDate(0, 0, 1), 300)

	kind := KindSteps
	from := day
	to := day.AddDate(0, 0, 1)
	samples, err := s.ListSamples(SampleFilter{Kind: &kind, From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	// Ordered by start ascending.
	if !samples[0].Start.Before(samples[1].Start) {
		t.Fatal("expected ascending start order")
	}
}

func TestListSamplesHalfOpenWindow(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := day.AddDate(0, 0, 1)

	// Exactly at To — must be excluded; exactly at From — included.
	insertSample(t, s, KindSteps, day, day, 1)
	insertSample(t, s, KindSteps, to, to, 2)

	kind := KindSteps
	samples, err := s.ListSamples(SampleFilter{Kind: &kind, From: &day, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].Value != 1 {
		t.Fatalf("expected only the From-boundary sample, got %+v", samples)
	}
}

func TestListSamplesLimit(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := day.Add(time.Duration(i) * time.Hour)
		insertSample(t, s, KindHeartRate, ts, ts, 70)
	}
	samples, err := s.ListSamples(SampleFilter{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
}

// ============================================================
// Statistics queries
// ============================================================

func TestSumValues(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	insertSample(t, s, KindSteps, day.Add(8*time.Hour), day.Add(8*time.Hour), 1200)
	insertSample(t, s, KindSteps, day.Add(12*time.Hour), day.Add(12*time.Hour), 850)
	insertSample(t, s, KindSteps, day.Add(18*time.Hour), day.Add(18*time.Hour), 300)

	total, err := s.SumValues(KindSteps, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if total != 2350 {
		t.Fatalf("expected 2350, got %v", total)
	}
}

func TestSumValuesEmptyWindow(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	total, err := s.SumValues(KindActiveEnergy, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Fatalf("expected 0 for empty window, got %v", total)
	}
}

func TestAverageValue(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	insertSample(t, s, KindHeartRate, day.Add(9*time.Hour), day.Add(9*time.Hour), 60)
	insertSample(t, s, KindHeartRate, day.Add(15*time.Hour), day.Add(15*time.Hour), 80)

	avg, err := s.AverageValue(KindHeartRate, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if avg == nil {
		t.Fatal("expected average, got nil")
	}
	if *avg != 70 {
		t.Fatalf("expected 70, got %v", *avg)
	}
}

func TestAverageValueEmptyWindowIsNil(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	avg, err := s.AverageValue(KindHeartRate, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if avg != nil {
		t.Fatalf("expected nil for empty window, got %v", *avg)
	}
}

// ============================================================
// Authorization grants
// ============================================================

func TestAuthorizationStatusUnknownByDefault(t *testing.T) {
	s := newTestStore(t)
	status, err := s.AuthorizationStatus(Kinds)
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthUnknown {
		t.Fatalf("expected unknown before any decision, got %v", status)
	}
}

func TestSetAuthorizationGranted(t *testing.T) {
	s := newTestStore(t)
	status, err := s.SetAuthorization(Kinds, true)
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthGranted {
		t.Fatalf("expected granted, got %v", status)
	}

	// Subsequent non-prompting check returns granted.
	status, err = s.AuthorizationStatus(Kinds)
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthGranted {
		t.Fatalf("expected granted on re-check, got %v", status)
	}
}

func TestSetAuthorizationDenied(t *testing.T) {
	s := newTestStore(t)
	status, err := s.SetAuthorization(Kinds, false)
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthDenied {
		t.Fatalf("expected denied, got %v", status)
	}
}

func TestSetAuthorizationDecisionIsFinal(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SetAuthorization(Kinds, false); err != nil {
		t.Fatal(err)
	}

	// A later "grant" must not override the recorded denial; the cached
	// decision is returned instead.
	status, err := s.SetAuthorization(Kinds, true)
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthDenied {
		t.Fatalf("expected cached denial, got %v", status)
	}
}

func TestHasDecision(t *testing.T) {
	s := newTestStore(t)
	decided, err := s.HasDecision(Kinds)
	if err != nil {
		t.Fatal(err)
	}
	if decided {
		t.Fatal("expected no decision on fresh store")
	}

	s.SetAuthorization(Kinds, true)
	decided, err = s.HasDecision(Kinds)
	if err != nil {
		t.Fatal(err)
	}
	if !decided {
		t.Fatal("expected decision after SetAuthorization")
	}
}

func TestAuthorizationPartialScopes(t *testing.T) {
	s := newTestStore(t)
	// Grant only steps; full scope set stays unknown.
	if _, err := s.SetAuthorization([]SampleKind{KindSteps}, true); err != nil {
		t.Fatal(err)
	}
	status, err := s.AuthorizationStatus(Kinds)
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthUnknown {
		t.Fatalf("expected unknown with undecided scopes, got %v", status)
	}

	status, err = s.AuthorizationStatus([]SampleKind{KindSteps})
	if err != nil {
		t.Fatal(err)
	}
	if status != AuthGranted {
		t.Fatalf("expected granted for the decided scope, got %v", status)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("history_days", "14"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("history_days")
	if err != nil {
		t.Fatal(err)
	}
	if v != "14" {
		t.Fatalf("expected 14, got %q", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nope")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 4 {
		t.Fatalf("expected 4 seeded settings, got %d", len(settings))
	}
}

// ============================================================
// Demo seed
// ============================================================

func TestSeedDemo(t *testing.T) {
	s := newTestStore(t)
	if err := s.SeedDemo(7); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Fatal("expected seeded samples")
	}
}

func TestSeedDemoSkipsNonEmptyStore(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	insertSample(t, s, KindSteps, now, now, 100)

	if err := s.SeedDemo(7); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("seed should not touch a non-empty store, got %d samples", count)
	}
}
