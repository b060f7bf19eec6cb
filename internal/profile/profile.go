// Package profile owns the two singleton records of an installation: the
// employee profile and the app settings. Both are overwritten wholesale on
// save; there is no partial update.
package profile

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
	"timesheet-service/internal/timesheet"
)

const (
	employeeKey = "employee_data"
	settingsKey = "app_settings"
)

var ErrEmployeeNameRequired = errors.New("employee name is required")

// Employee is the profile of the installed app instance.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
}

// WorkingHours is the configured daily work window, "HH:MM" local.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AppSettings is the preference bag.
type AppSettings struct {
	Notifications  bool         `json:"notifications"`
	HapticFeedback bool         `json:"hapticFeedback"`
	DarkMode       bool         `json:"darkMode"`
	AutoClockOut   bool         `json:"autoClockOut"`
	WorkingHours   WorkingHours `json:"workingHours"`
}

// Stats is derived from the completed entry list.
type Stats struct {
	TotalHours     float64 `json:"totalHours"`
	DaysWorked     int     `json:"daysWorked"`
	AvgHoursPerDay float64 `json:"avgHoursPerDay"`
	ThisWeekHours  float64 `json:"thisWeekHours"`
}

func defaultEmployee() Employee {
	return Employee{
		ID:         "1",
		Name:       "John Doe",
		Email:      "john.doe@company.com",
		Phone:      "+1 (555) 123-4567",
		Department: "Engineering",
		Position:   "Software Developer",
		EmployeeID: "EMP001",
		StartDate:  "2024-01-15",
	}
}

func defaultSettings() AppSettings {
	return AppSettings{
		Notifications:  true,
		HapticFeedback: true,
		DarkMode:       false,
		AutoClockOut:   false,
		WorkingHours:   WorkingHours{Start: "09:00", End: "17:00"},
	}
}

// Store owns the employee and settings keys.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	entries  *timesheet.Store
	clock    func() time.Time
	logger   *slog.Logger
}

func NewStore(provider storage.Provider, entries *timesheet.Store) *Store {
	return &Store{
		provider: provider,
		entries:  entries,
		clock:    time.Now,
		logger:   slog.With("component", "profile"),
	}
}

// SetClock overrides the time source. Used by tests.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Employee returns the profile, seeding the default on first read. Fails soft
// with the default.
func (s *Store) Employee(ctx context.Context) Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	var employee Employee
	if ok := s.loadOrSeed(ctx, employeeKey, &employee, defaultEmployee()); !ok {
		return defaultEmployee()
	}
	return employee
}

// SaveEmployee overwrites the whole profile.
func (s *Store) SaveEmployee(ctx context.Context, employee Employee) error {
	if employee.Name == "" {
		return ErrEmployeeNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveJSON(ctx, employeeKey, employee); err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	s.logger.Info("Saved employee profile", "employee_id", employee.EmployeeID)
	return nil
}

// Settings returns the preference bag, seeding defaults on first read. Fails
// soft with the defaults.
func (s *Store) Settings(ctx context.Context) AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings AppSettings
	if ok := s.loadOrSeed(ctx, settingsKey, &settings, defaultSettings()); !ok {
		return defaultSettings()
	}
	return settings
}

// SaveSettings overwrites the whole preference bag.
func (s *Store) SaveSettings(ctx context.Context, settings AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveJSON(ctx, settingsKey, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("Saved app settings")
	return nil
}

// ComputeStats scans the completed entry list: total hours, distinct days
// worked, average hours per day worked, and the Sunday-start current-week
// hours.
func (s *Store) ComputeStats(ctx context.Context) Stats {
	entries := s.entries.AllEntries(ctx)

	totalMinutes := 0
	days := make(map[string]struct{})
	for _, entry := range entries {
		totalMinutes += entry.Duration
		days[entry.Date] = struct{}{}
	}

	stats := Stats{
		TotalHours: float64(totalMinutes) / 60,
		DaysWorked: len(days),
	}
	if stats.DaysWorked > 0 {
		stats.AvgHoursPerDay = stats.TotalHours / float64(stats.DaysWorked)
	}

	weekStart := timecalc.StartOfWeek(s.clock())
	weekMinutes := 0
	for _, entry := range entries {
		if !entry.ClockIn.Before(weekStart) {
			weekMinutes += entry.Duration
		}
	}
	stats.ThisWeekHours = float64(weekMinutes) / 60

	return stats
}

// loadOrSeed unmarshals the key into out; when absent, persists the fallback
// and returns it. Returns false only on a storage or decode fault.
func (s *Store) loadOrSeed(ctx context.Context, key string, out any, fallback any) bool {
	data, err := s.provider.GetValue(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		if err := s.saveJSON(ctx, key, fallback); err != nil {
			s.logger.Error("Failed to seed default value", "key", key, "error", err)
		}
		// out keeps its zero value; the caller falls back explicitly
		data, err = json.Marshal(fallback)
		if err != nil {
			return false
		}
	} else if err != nil {
		s.logger.Error("Failed to load value", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Error("Corrupt value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) saveJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.provider.SetValue(ctx, key, data)
}
