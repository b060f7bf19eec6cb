// Package timesheet implements the clock-in/clock-out entry store and its
// aggregates. Completed entries live under one key-value entry as a JSON list;
// the single in-progress entry lives under its own key, which is what keeps
// "at most one shift in progress" true without any cross-entry scanning.
package timesheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"timesheet-service/internal/storage"
	"timesheet-service/internal/timecalc"
)

const (
	entriesKey      = "timesheet_entries"
	currentEntryKey = "current_entry"
)

var ErrAlreadyClockedIn = errors.New("already clocked in")

// ClockInOptions is the optional context captured at clock-in.
type ClockInOptions struct {
	Location   string
	ClientID   string
	ClientName string
}

// EntryPatch is a partial update for a completed entry. Nil fields are left
// unchanged. Changing either timestamp recomputes the stored duration.
type EntryPatch struct {
	ClockIn  *time.Time `json:"clockIn,omitempty"`
	ClockOut *time.Time `json:"clockOut,omitempty"`
	Location *string    `json:"location,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// Store owns the completed-entries list and the in-progress slot.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	clock    func() time.Time
	logger   *slog.Logger
}

func NewStore(provider storage.Provider) *Store {
	return &Store{
		provider: provider,
		clock:    time.Now,
		logger:   slog.With("component", "timesheet"),
	}
}

// SetClock overrides the time source. Used by tests.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// ClockIn starts a new shift. Returns ErrAlreadyClockedIn if a shift is in
// progress.
func (s *Store) ClockIn(ctx context.Context, opts ClockInOptions) (*TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, ErrAlreadyClockedIn
	}

	now := s.clock()
	entry := &TimeEntry{
		ID:         timecalc.GenerateID(now),
		ClockIn:    now,
		Date:       timecalc.DayString(now),
		Location:   opts.Location,
		ClientID:   opts.ClientID,
		ClientName: opts.ClientName,
	}

	if err := s.saveCurrent(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to clock in: %w", err)
	}

	s.logger.Info("Clocked in", "entry_id", entry.ID, "client_id", entry.ClientID)
	return entry, nil
}

// ClockOut finalizes the in-progress shift. No-op returning (nil, nil) when
// nothing is in progress.
func (s *Store) ClockOut(ctx context.Context) (*TimeEntry, error) {
	return s.clockOut(ctx, nil)
}

// ClockOutWithSurvey finalizes the in-progress shift with the survey attached
// unchanged to the completed entry.
func (s *Store) ClockOutWithSurvey(ctx context.Context, survey *Survey) (*TimeEntry, error) {
	if survey != nil {
		if err := survey.Validate(); err != nil {
			return nil, err
		}
	}
	return s.clockOut(ctx, survey)
}

func (s *Store) clockOut(ctx context.Context, survey *Survey) (*TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		s.logger.Debug("Clock-out requested while not clocked in")
		return nil, nil
	}

	now := s.clock()
	current.ClockOut = &now
	current.Duration = timecalc.ElapsedMinutes(current.ClockIn, now)
	current.Survey = survey

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, *current)

	if err := s.saveEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to clock out: %w", err)
	}
	if err := s.provider.DeleteValue(ctx, currentEntryKey); err != nil {
		return nil, fmt.Errorf("failed to clear current entry: %w", err)
	}

	s.logger.Info("Clocked out", "entry_id", current.ID, "duration_min", current.Duration)
	return current, nil
}

// CurrentEntry returns the in-progress entry, or nil. Fails soft.
func (s *Store) CurrentEntry(ctx context.Context) *TimeEntry {
	current, err := s.loadCurrent(ctx)
	if err != nil {
		s.logger.Error("Failed to load current entry", "error", err)
		return nil
	}
	return current
}

// IsClockedIn reports whether a shift is in progress.
func (s *Store) IsClockedIn(ctx context.Context) bool {
	return s.CurrentEntry(ctx) != nil
}

// AllEntries returns the completed list in insertion order. Fails soft with an
// empty list.
func (s *Store) AllEntries(ctx context.Context) []TimeEntry {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		s.logger.Error("Failed to load entries", "error", err)
		return []TimeEntry{}
	}
	return entries
}

// TodayEntries returns completed entries whose day snapshot equals today.
// String equality on the snapshot: an entry straddling midnight stays on its
// clock-in day.
func (s *Store) TodayEntries(ctx context.Context) []TimeEntry {
	today := timecalc.DayString(s.clock())
	var result []TimeEntry
	for _, entry := range s.AllEntries(ctx) {
		if entry.Date == today {
			result = append(result, entry)
		}
	}
	return result
}

// TodayHours sums today's completed durations in hours, plus the live elapsed
// time of the in-progress entry if any.
func (s *Store) TodayHours(ctx context.Context) float64 {
	totalMinutes := 0
	for _, entry := range s.TodayEntries(ctx) {
		totalMinutes += entry.Duration
	}

	if current := s.CurrentEntry(ctx); current != nil {
		totalMinutes += timecalc.ElapsedMinutes(current.ClockIn, s.clock())
	}

	return float64(totalMinutes) / 60
}

// WeeklyHours returns seven buckets indexed Sunday=0..Saturday=6, each the sum
// of completed-entry hours whose clock-in falls on or after the most recent
// Sunday 00:00 local time. In-progress time is excluded.
func (s *Store) WeeklyHours(ctx context.Context) []float64 {
	weekStart := timecalc.StartOfWeek(s.clock())
	hours := make([]float64, 7)

	for _, entry := range s.AllEntries(ctx) {
		if entry.ClockIn.Before(weekStart) {
			continue
		}
		hours[int(entry.ClockIn.Weekday())] += float64(entry.Duration) / 60
	}

	return hours
}

// DeleteEntry removes one completed entry. Unknown id is a silent no-op.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if err := s.saveEntries(ctx, kept); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	s.logger.Info("Deleted entry", "entry_id", id)
	return nil
}

// UpdateEntry applies a partial update to a completed entry and persists it.
// Unknown id is a silent no-op returning (nil, nil).
func (s *Store) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (*TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID != id {
			continue
		}

		entry := &entries[i]
		if patch.ClockIn != nil {
			entry.ClockIn = *patch.ClockIn
		}
		if patch.ClockOut != nil {
			entry.ClockOut = patch.ClockOut
		}
		if patch.ClockIn != nil || patch.ClockOut != nil {
			if !entry.InProgress() {
				entry.Duration = timecalc.ElapsedMinutes(entry.ClockIn, *entry.ClockOut)
			}
		}
		if patch.Location != nil {
			entry.Location = *patch.Location
		}
		if patch.Notes != nil {
			entry.Notes = *patch.Notes
		}

		if err := s.saveEntries(ctx, entries); err != nil {
			return nil, fmt.Errorf("failed to update entry: %w", err)
		}
		s.logger.Info("Updated entry", "entry_id", id)

		updated := entries[i]
		return &updated, nil
	}

	s.logger.Debug("Update for unknown entry", "entry_id", id)
	return nil, nil
}

func (s *Store) loadEntries(ctx context.Context) ([]TimeEntry, error) {
	data, err := s.provider.GetValue(ctx, entriesKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []TimeEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []TimeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt entries value: %w", err)
	}
	return entries, nil
}

func (s *Store) saveEntries(ctx context.Context, entries []TimeEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.provider.SetValue(ctx, entriesKey, data)
}

func (s *Store) loadCurrent(ctx context.Context) (*TimeEntry, error) {
	data, err := s.provider.GetValue(ctx, currentEntryKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry TimeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt current entry value: %w", err)
	}
	return &entry, nil
}

func (s *Store) saveCurrent(ctx context.Context, entry *TimeEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.provider.SetValue(ctx, currentEntryKey, data)
}
