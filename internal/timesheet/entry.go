package timesheet

import (
	"errors"
	"fmt"
	"time"
)

// Survey is the post-shift feedback captured at clock-out.
type Survey struct {
	ClientRating        int    `json:"clientRating"`
	WorkQuality         int    `json:"workQuality"`
	Communication       int    `json:"communication"`
	WorkEnvironment     int    `json:"workEnvironment"`
	Comments            string `json:"comments"`
	WouldReturnToClient bool   `json:"wouldReturnToClient"`
}

var ErrInvalidSurvey = errors.New("survey ratings must be between 1 and 5")

// Validate checks the rating axes. Ratings are 1..5.
func (s *Survey) Validate() error {
	for _, rating := range []int{s.ClientRating, s.WorkQuality, s.Communication, s.WorkEnvironment} {
		if rating < 1 || rating > 5 {
			return fmt.Errorf("%w: got %d", ErrInvalidSurvey, rating)
		}
	}
	return nil
}

// TimeEntry is one shift record. Date is the local calendar day of ClockIn,
// snapshotted at clock-in; it is authoritative for "today" grouping and is
// never re-derived from ClockIn.
type TimeEntry struct {
	ID         string     `json:"id"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	Date       string     `json:"date"`
	Duration   int        `json:"duration,omitempty"` // whole minutes, set at clock-out
	Location   string     `json:"location,omitempty"`
	ClientID   string     `json:"clientId,omitempty"`
	ClientName string     `json:"clientName,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Survey     *Survey    `json:"surveyData,omitempty"`
}

// InProgress reports whether the entry has not been clocked out yet.
func (e *TimeEntry) InProgress() bool {
	return e.ClockOut == nil
}
