package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

const plannerRoundSample = 10

// Weakness thresholds. A stat on the wrong side of its threshold marks the
// area as needing work; the most severe shortfall wins.
const (
	puttsPerRoundThreshold     = 33.0
	fairwayHitRateThreshold    = 0.45
	greensInRegRateThreshold   = 0.40
	upAndDownConversionTarget  = 0.40
	defaultFocusWithoutRecords = "fundamentals"
)

// ComputeFocusCategory inspects recent rounds and names the practice category
// with the biggest shortfall. Rounds without the relevant counters simply
// contribute nothing to that signal.
func ComputeFocusCategory(rounds []domain.Round) string {
	recent := slices.Clone(rounds)
	slices.SortStableFunc(recent, func(a, b domain.Round) int {
		// Newest first
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	if len(recent) > plannerRoundSample {
		recent = recent[:plannerRoundSample]
	}

	puttRounds := 0
	putts := 0
	fairwaysHit := 0
	fairwaysPossible := 0
	greens := 0
	greenChances := 0
	upAndDownsMade := 0
	upAndDownAttempts := 0

	for _, round := range recent {
		if round.IsFullRound() && round.Putts > 0 {
			puttRounds++
			putts += round.Putts
		}
		fairwaysHit += round.FairwaysHit
		fairwaysPossible += round.FairwaysPossible
		if round.IsFullRound() {
			greens += round.GreensInRegulation
			greenChances += 18
		}
		upAndDownsMade += round.UpAndDownsMade
		upAndDownAttempts += round.UpAndDownsMade + round.UpAndDownsMissed
	}

	type signal struct {
		category  string
		shortfall float64
	}
	signals := []signal{}

	if puttRounds > 0 {
		average := float64(putts) / float64(puttRounds)
		if average > puttsPerRoundThreshold {
			signals = append(signals, signal{
				category:  "putting",
				shortfall: (average - puttsPerRoundThreshold) / puttsPerRoundThreshold,
			})
		}
	}
	if upAndDownAttempts > 0 {
		rate := float64(upAndDownsMade) / float64(upAndDownAttempts)
		if rate < upAndDownConversionTarget {
			signals = append(signals, signal{
				category:  "chipping",
				shortfall: (upAndDownConversionTarget - rate) / upAndDownConversionTarget,
			})
		}
	}
	if fairwaysPossible > 0 {
		rate := float64(fairwaysHit) / float64(fairwaysPossible)
		if rate < fairwayHitRateThreshold {
			signals = append(signals, signal{
				category:  "driving",
				shortfall: (fairwayHitRateThreshold - rate) / fairwayHitRateThreshold,
			})
		}
	}
	if greenChances > 0 {
		rate := float64(greens) / float64(greenChances)
		if rate < greensInRegRateThreshold {
			signals = append(signals, signal{
				category:  "irons",
				shortfall: (greensInRegRateThreshold - rate) / greensInRegRateThreshold,
			})
		}
	}

	if len(signals) == 0 {
		return defaultFocusWithoutRecords
	}

	best := signals[0]
	for _, s := range signals[1:] {
		if s.shortfall > best.shortfall {
			best = s
		}
	}
	return best.category
}

// ComputePlan fills the time budget from the library: focus-category drills
// first, then one drill per remaining category in rotation. Each drill appears
// at most once. Deterministic for a given catalog.
func ComputePlan(userID string, focus string, availableMinutes int, facility domain.Facility, library []domain.Drill) *domain.PracticePlan {
	matches := func(drill domain.Drill) bool {
		return facility == domain.FacilityAny || drill.Facility == facility
	}

	plan := &domain.PracticePlan{
		UserID:        userID,
		FocusCategory: focus,
		Items:         []domain.PlanItem{},
	}
	remaining := availableMinutes
	used := map[string]bool{}

	add := func(drill domain.Drill, reason string) {
		plan.Items = append(plan.Items, domain.PlanItem{Drill: drill, Reason: reason})
		plan.TotalMinutes += drill.Minutes
		plan.TotalXP += drill.XP()
		remaining -= drill.Minutes
		used[drill.ID] = true
	}

	for _, drill := range library {
		if drill.Category != focus || !matches(drill) || drill.Minutes > remaining {
			continue
		}
		add(drill, "Targets "+focus)
	}

	// Rotate through the other categories so the plan stays varied
	byCategory := map[string][]domain.Drill{}
	categoryOrder := []string{}
	for _, drill := range library {
		if used[drill.ID] || drill.Category == focus || !matches(drill) {
			continue
		}
		if _, seen := byCategory[drill.Category]; !seen {
			categoryOrder = append(categoryOrder, drill.Category)
		}
		byCategory[drill.Category] = append(byCategory[drill.Category], drill)
	}

	for added := true; added; {
		added = false
		for _, category := range categoryOrder {
			drills := byCategory[category]
			for len(drills) > 0 {
				drill := drills[0]
				drills = drills[1:]
				if drill.Minutes > remaining {
					continue
				}
				add(drill, "Keeps "+category+" sharp")
				added = true
				break
			}
			byCategory[category] = drills
		}
	}

	return plan
}

type PlanWeek = func(ctx context.Context, userID string, availableMinutes int, facility domain.Facility) (*domain.PracticePlan, error)

// BuildPlanWeek derives the focus area from the member's recent rounds and
// fills their available time from the drill library.
func BuildPlanWeek(rounds trophyRoundSource) PlanWeek {
	return func(ctx context.Context, userID string, availableMinutes int, facility domain.Facility) (*domain.PracticePlan, error) {
		if !strutils.UserIDIsNormalized(userID) {
			err := fmt.Errorf("user ID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
			})
			return nil, err
		}
		if availableMinutes <= 0 {
			return nil, fmt.Errorf("available minutes must be positive, got %d", availableMinutes)
		}

		userRounds, err := rounds.ListRoundsForUser(ctx, userID)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}

		focus := ComputeFocusCategory(userRounds)
		return ComputePlan(userID, focus, availableMinutes, facility, Drills()), nil
	}
}
