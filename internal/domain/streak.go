package domain

import (
	"slices"
	"time"
)

// practiceDays collapses timestamps to distinct calendar days in loc, sorted
// ascending. Calendar day boundaries depend on the location, which is why it
// is threaded through everywhere instead of assuming UTC.
func practiceDays(times []time.Time, loc *time.Location) []time.Time {
	seen := map[time.Time]bool{}
	days := []time.Time{}
	for _, t := range times {
		year, month, day := t.In(loc).Date()
		d := time.Date(year, month, day, 0, 0, 0, 0, loc)
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})
	return days
}

// LongestStreak is the longest run of consecutive calendar days with at least
// one timestamp each. Multiple entries on one day count once.
func LongestStreak(times []time.Time, loc *time.Location) int {
	days := practiceDays(times, loc)
	if len(days) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// CurrentStreak counts consecutive practice days ending today or yesterday.
// A streak is still alive on a day with no practice yet.
func CurrentStreak(times []time.Time, now time.Time, loc *time.Location) int {
	days := practiceDays(times, loc)
	if len(days) == 0 {
		return 0
	}

	year, month, day := now.In(loc).Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, loc)

	last := days[len(days)-1]
	if !last.Equal(today) && !last.Equal(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if !days[i].Equal(days[i+1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}
