package app

import (
	"math"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
)

// RoundsInWindow keeps the rounds played inside the window ending at now.
func RoundsInWindow(rounds []domain.Round, window domain.TimeWindow, now time.Time) []domain.Round {
	filtered := []domain.Round{}
	for _, round := range rounds {
		if window.Contains(round.PlayedAt, now) {
			filtered = append(filtered, round)
		}
	}
	return filtered
}

// PracticeInWindow keeps the practice entries logged inside the window ending at now.
func PracticeInWindow(entries []domain.PracticeEntry, window domain.TimeWindow, now time.Time) []domain.PracticeEntry {
	filtered := []domain.PracticeEntry{}
	for _, entry := range entries {
		if window.Contains(entry.LoggedAt, now) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// ComputePracticeHours sums practice durations in hours.
func ComputePracticeHours(entries []domain.PracticeEntry) float64 {
	minutes := 0
	for _, entry := range entries {
		minutes += entry.DurationMinutes()
	}
	return float64(minutes) / 60
}

// ComputeXP is the windowed XP total: a fixed award per round played plus the
// XP carried by each practice entry.
func ComputeXP(rounds []domain.Round, entries []domain.PracticeEntry) float64 {
	xp := len(rounds) * domain.XPPerRound
	for _, entry := range entries {
		xp += entry.XP
	}
	return float64(xp)
}

// ComputeLowGross finds the best gross score among full rounds. The second
// return is false when no full round has a recorded gross.
func ComputeLowGross(rounds []domain.Round) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, round := range rounds {
		if !round.IsFullRound() || round.GrossScore == nil {
			continue
		}
		best = min(best, float64(*round.GrossScore))
		found = true
	}
	if !found {
		return 0, false
	}
	return best, true
}

// ComputeLowNett finds the best handicap-adjusted score among full rounds.
func ComputeLowNett(rounds []domain.Round) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, round := range rounds {
		if !round.IsFullRound() {
			continue
		}
		nett, ok := round.NettScore()
		if !ok {
			continue
		}
		best = min(best, nett)
		found = true
	}
	if !found {
		return 0, false
	}
	return best, true
}

func computeDistinctTitles(entries []domain.PracticeEntry) float64 {
	titles := map[string]bool{}
	for _, entry := range entries {
		if entry.Title != "" {
			titles[entry.Title] = true
		}
	}
	return float64(len(titles))
}

func computeDistinctDrillIDs(entries []domain.PracticeEntry) float64 {
	ids := map[string]bool{}
	for _, entry := range entries {
		if entry.DrillID != "" {
			ids[entry.DrillID] = true
		}
	}
	return float64(len(ids))
}

// MetricValue computes one user's scalar for the metric over their rounds and
// practice entries. The second return is false when the metric is undefined
// for the user, which excludes them from that leaderboard rather than ranking
// them last.
//
// The library metric ignores the window for allTime: completions never expire
// from the completed set.
func MetricValue(
	metric domain.Metric,
	window domain.TimeWindow,
	rounds []domain.Round,
	practice []domain.PracticeEntry,
	now time.Time,
) (float64, bool) {
	windowedRounds := RoundsInWindow(rounds, window, now)
	windowedPractice := PracticeInWindow(practice, window, now)

	switch metric {
	case domain.MetricXP:
		return ComputeXP(windowedRounds, windowedPractice), true
	case domain.MetricRounds:
		return float64(len(windowedRounds)), true
	case domain.MetricPracticeHours:
		return ComputePracticeHours(windowedPractice), true
	case domain.MetricDrills:
		return computeDistinctTitles(windowedPractice), true
	case domain.MetricLibrary:
		if window == domain.WindowAllTime {
			return computeDistinctDrillIDs(practice), true
		}
		return computeDistinctDrillIDs(windowedPractice), true
	case domain.MetricLowGross:
		return ComputeLowGross(windowedRounds)
	case domain.MetricLowNett:
		return ComputeLowNett(windowedRounds)
	case domain.MetricBirdies:
		total := 0
		for _, round := range windowedRounds {
			total += round.Birdies
		}
		return float64(total), true
	case domain.MetricEagles:
		total := 0
		for _, round := range windowedRounds {
			total += round.Eagles
		}
		return float64(total), true
	default:
		return 0, false
	}
}
