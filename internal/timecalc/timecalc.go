// Package timecalc holds the calendar arithmetic for timesheet aggregation.
package timecalc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DayLayout is the calendar-day string format used for entry day snapshots.
const DayLayout = "2006-01-02"

// GenerateID creates a unique entry ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), string(suffix))
}

// DayString returns the local calendar-day string for t.
func DayString(t time.Time) string {
	return t.Format(DayLayout)
}

// ElapsedMinutes returns whole minutes between from and to, truncated.
func ElapsedMinutes(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

// StartOfWeek returns the most recent Sunday 00:00:00 in t's location.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t.AddDate(0, 0, -int(t.Weekday())))
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatMinutes formats whole minutes as a human-readable string like "8h 0m" or "45m".
func FormatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
