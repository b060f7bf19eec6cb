package timesheet

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"timesheet-service/internal/config"
	"timesheet-service/internal/storage"
)

func newTestStore(t *testing.T, start time.Time) (*Store, *time.Time) {
	t.Helper()

	cfg := &config.Storage{SQLite: &config.SQLLiteStorage{Path: ":memory:"}}
	provider := storage.NewProvider(cfg)
	if provider == nil {
		t.Fatal("failed to initialize test provider")
	}
	t.Cleanup(func() { provider.Close() })

	now := start
	store := NewStore(provider)
	store.SetClock(func() time.Time { return now })
	return store, &now
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClockInClockOutFullShift(t *testing.T) {
	clockIn := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, clockIn)
	ctx := context.Background()

	entry, err := store.ClockIn(ctx, ClockInOptions{ClientID: "c1", ClientName: "ABC Corporation", Location: "Downtown"})
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if entry.ID == "" {
		t.Error("clock-in must assign an id")
	}
	if !entry.ClockIn.Equal(clockIn) {
		t.Errorf("clockIn = %v, want %v", entry.ClockIn, clockIn)
	}
	if entry.Date != "2024-01-01" {
		t.Errorf("date snapshot = %q, want 2024-01-01", entry.Date)
	}
	if !store.IsClockedIn(ctx) {
		t.Error("expected clocked-in state after ClockIn")
	}

	*now = clockIn.Add(8 * time.Hour)
	completed, err := store.ClockOut(ctx)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if completed == nil {
		t.Fatal("ClockOut returned no entry")
	}
	if completed.Duration != 480 {
		t.Errorf("duration = %d, want 480", completed.Duration)
	}
	if completed.ClockOut == nil || !completed.ClockOut.Equal(*now) {
		t.Errorf("clockOut = %v, want %v", completed.ClockOut, *now)
	}
	if completed.ClientID != "c1" {
		t.Errorf("clientId = %q, want c1", completed.ClientID)
	}
	if completed.Survey != nil {
		t.Error("plain clock-out must not attach survey data")
	}

	if store.IsClockedIn(ctx) {
		t.Error("residual current entry after clock-out")
	}
	all := store.AllEntries(ctx)
	if len(all) != 1 || all[0].ID != completed.ID {
		t.Fatalf("completed list = %+v, want the one finalized entry", all)
	}
}

func TestImmediateClockOutHasZeroDuration(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, start)
	ctx := context.Background()

	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	*now = start.Add(30 * time.Second)
	completed, err := store.ClockOut(ctx)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if completed.Duration != 0 {
		t.Errorf("duration = %d, want 0 (floor of 30s)", completed.Duration)
	}
}

func TestDoubleClockIn(t *testing.T) {
	store, _ := newTestStore(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("first ClockIn: %v", err)
	}
	if _, err := store.ClockIn(ctx, ClockInOptions{}); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("second ClockIn error = %v, want ErrAlreadyClockedIn", err)
	}
}

func TestClockOutWhileClockedOutIsNoop(t *testing.T) {
	store, _ := newTestStore(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	entry, err := store.ClockOut(ctx)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if entry != nil {
		t.Errorf("expected no entry, got %+v", entry)
	}
	if got := store.AllEntries(ctx); len(got) != 0 {
		t.Errorf("entries = %+v, want empty", got)
	}
}

func TestClockOutWithSurvey(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, start)
	ctx := context.Background()

	if _, err := store.ClockIn(ctx, ClockInOptions{ClientID: "c1"}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	*now = start.Add(4 * time.Hour)

	survey := &Survey{
		ClientRating:        5,
		WorkQuality:         4,
		Communication:       5,
		WorkEnvironment:     3,
		Comments:            "good site access",
		WouldReturnToClient: true,
	}
	completed, err := store.ClockOutWithSurvey(ctx, survey)
	if err != nil {
		t.Fatalf("ClockOutWithSurvey: %v", err)
	}
	if completed.Survey == nil || *completed.Survey != *survey {
		t.Errorf("survey not attached unchanged: %+v", completed.Survey)
	}

	// Survives the persistence round trip too.
	all := store.AllEntries(ctx)
	if len(all) != 1 || all[0].Survey == nil || *all[0].Survey != *survey {
		t.Errorf("persisted survey mismatch: %+v", all)
	}
}

func TestClockOutWithInvalidSurvey(t *testing.T) {
	store, _ := newTestStore(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	for _, rating := range []int{0, 6, -1} {
		survey := &Survey{ClientRating: rating, WorkQuality: 3, Communication: 3, WorkEnvironment: 3}
		if _, err := store.ClockOutWithSurvey(ctx, survey); !errors.Is(err, ErrInvalidSurvey) {
			t.Errorf("rating %d: error = %v, want ErrInvalidSurvey", rating, err)
		}
	}

	if !store.IsClockedIn(ctx) {
		t.Error("rejected survey must leave the shift in progress")
	}
}

func TestTodayHoursIncludesLiveSession(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, start)
	ctx := context.Background()

	// One completed two-hour shift this morning.
	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	*now = start.Add(2 * time.Hour)
	if _, err := store.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	if got := store.TodayHours(ctx); !almostEqual(got, 2) {
		t.Errorf("TodayHours = %v, want 2", got)
	}

	// Clock back in; live elapsed time counts, and grows with the clock.
	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("second ClockIn: %v", err)
	}
	*now = now.Add(90 * time.Minute)
	first := store.TodayHours(ctx)
	if !almostEqual(first, 3.5) {
		t.Errorf("TodayHours while clocked in = %v, want 3.5", first)
	}
	*now = now.Add(30 * time.Minute)
	second := store.TodayHours(ctx)
	if second < first {
		t.Errorf("TodayHours decreased from %v to %v while clocked in", first, second)
	}
}

func TestTodayEntriesGroupsBySnapshotDay(t *testing.T) {
	yesterday := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, yesterday)
	ctx := context.Background()

	// Shift straddling midnight stays on its clock-in day.
	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	*now = yesterday.Add(4 * time.Hour) // 02:00 the next day
	if _, err := store.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	if got := store.TodayEntries(ctx); len(got) != 0 {
		t.Errorf("midnight-straddling entry attributed to clock-out day: %+v", got)
	}

	*now = time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	if got := store.TodayEntries(ctx); len(got) != 1 {
		t.Errorf("entry missing from its clock-in day: %+v", got)
	}
}

func TestWeeklyHours(t *testing.T) {
	// Wednesday 2024-01-10; week started Sunday 2024-01-07.
	store, now := newTestStore(t, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	shift := func(start time.Time, d time.Duration) {
		t.Helper()
		*now = start
		if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
			t.Fatalf("ClockIn: %v", err)
		}
		*now = start.Add(d)
		if _, err := store.ClockOut(ctx); err != nil {
			t.Fatalf("ClockOut: %v", err)
		}
	}

	shift(time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), 8*time.Hour)  // prior week, excluded
	shift(time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC), 2*time.Hour) // Sunday
	shift(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), 6*time.Hour)  // Monday
	shift(time.Date(2024, 1, 8, 16, 0, 0, 0, time.UTC), time.Hour)   // Monday again
	shift(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 4*time.Hour) // Wednesday

	// In-progress entry is excluded from the weekly aggregate.
	*now = time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	hours := store.WeeklyHours(ctx)
	if len(hours) != 7 {
		t.Fatalf("WeeklyHours returned %d buckets, want 7", len(hours))
	}

	want := []float64{2, 7, 0, 4, 0, 0, 0}
	total := 0.0
	for i, h := range hours {
		total += h
		if !almostEqual(h, want[i]) {
			t.Errorf("bucket[%d] = %v, want %v", i, h, want[i])
		}
	}
	if !almostEqual(total, 13) {
		t.Errorf("weekly total = %v, want 13 (prior week contributes 0)", total)
	}
}

func TestDeleteEntry(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, start)
	ctx := context.Background()

	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	*now = start.Add(time.Hour)
	completed, err := store.ClockOut(ctx)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	if err := store.DeleteEntry(ctx, completed.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if got := store.AllEntries(ctx); len(got) != 0 {
		t.Errorf("entries after delete = %+v, want empty", got)
	}

	// Unknown id is a silent no-op.
	if err := store.DeleteEntry(ctx, "nonexistent-id"); err != nil {
		t.Errorf("DeleteEntry(nonexistent) = %v, want nil", err)
	}
}

func TestUpdateEntry(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store, now := newTestStore(t, start)
	ctx := context.Background()

	if _, err := store.ClockIn(ctx, ClockInOptions{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	*now = start.Add(time.Hour)
	completed, err := store.ClockOut(ctx)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	notes := "adjusted by admin"
	newOut := start.Add(90 * time.Minute)
	updated, err := store.UpdateEntry(ctx, completed.ID, EntryPatch{Notes: &notes, ClockOut: &newOut})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated == nil {
		t.Fatal("UpdateEntry returned nil for existing entry")
	}
	if updated.Notes != notes {
		t.Errorf("notes = %q, want %q", updated.Notes, notes)
	}
	if updated.Duration != 90 {
		t.Errorf("duration = %d, want 90 after clock-out change", updated.Duration)
	}

	// The change persists.
	all := store.AllEntries(ctx)
	if len(all) != 1 || all[0].Duration != 90 || all[0].Notes != notes {
		t.Errorf("persisted entry mismatch: %+v", all)
	}

	// Unknown id: silent no-op.
	got, err := store.UpdateEntry(ctx, "nonexistent-id", EntryPatch{Notes: &notes})
	if err != nil || got != nil {
		t.Errorf("UpdateEntry(nonexistent) = %+v, %v; want nil, nil", got, err)
	}
}
