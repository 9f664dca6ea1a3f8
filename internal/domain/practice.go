package domain

import (
	"time"
)

// XPPerMinute is the award rate for logged practice time. Entries recorded
// without an explicit duration derive it from their XP at this rate.
const XPPerMinute = 10

// XPPerRound is the fixed award for a completed round of golf.
const XPPerRound = 100

type PracticeEntry struct {
	ID       string
	UserID   string
	LoggedAt time.Time

	Title    string
	DrillID  string
	Category string

	Minutes int
	XP      int
}

// DurationMinutes falls back to deriving the duration from the XP award for
// entries logged before durations were recorded.
func (e PracticeEntry) DurationMinutes() int {
	if e.Minutes > 0 {
		return e.Minutes
	}
	return e.XP / XPPerMinute
}
