package domain

import (
	"fmt"
	"time"
)

// TimeWindow names a lookback period for aggregation
type TimeWindow string

const (
	WindowWeek    TimeWindow = "week"
	WindowMonth   TimeWindow = "month"
	WindowYear    TimeWindow = "year"
	WindowAllTime TimeWindow = "allTime"
)

var AllTimeWindows = []TimeWindow{WindowWeek, WindowMonth, WindowYear, WindowAllTime}

func TimeWindowFromString(raw string) (TimeWindow, error) {
	switch TimeWindow(raw) {
	case WindowWeek, WindowMonth, WindowYear, WindowAllTime:
		return TimeWindow(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, raw)
	}
}

// Start returns the inclusive lower bound of the window ending at now.
// Month and year use calendar arithmetic, not fixed day counts.
func (w TimeWindow) Start(now time.Time) time.Time {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	case WindowYear:
		return now.AddDate(-1, 0, 0)
	case WindowAllTime:
		return time.Time{}
	default:
		return time.Time{}
	}
}

// Contains reports whether t falls inside the window ending at now. The lower
// bound is inclusive, the upper bound is now.
func (w TimeWindow) Contains(t time.Time, now time.Time) bool {
	if t.After(now) {
		return false
	}
	if w == WindowAllTime {
		return true
	}
	return !t.Before(w.Start(now))
}
