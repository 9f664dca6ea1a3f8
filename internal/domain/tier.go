package domain

import "fmt"

const (
	// StartingHandicap anchors progress for members who have not recorded one.
	StartingHandicap = 12.0
	// GoalHandicap is the program target. Reaching it earns the top tier.
	GoalHandicap = 8.7

	goldHandicap   = 10.0
	silverHandicap = 12.0

	goldXP   = 6000
	silverXP = 3000
)

type Tier int

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
)

func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "bronze"
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	case TierPlatinum:
		return "platinum"
	default:
		return fmt.Sprintf("<invalid tier>(%d)", int(t))
	}
}

func (t Tier) Label() string {
	switch t {
	case TierBronze:
		return "Apprentice"
	case TierSilver:
		return "Contender"
	case TierGold:
		return "Champion"
	case TierPlatinum:
		return "Tour Pro"
	default:
		return fmt.Sprintf("<invalid tier>(%d)", int(t))
	}
}

// TierFor places a member by handicap first, then by accumulated XP. A nil
// handicap only rules out the handicap routes, not the XP ones.
func TierFor(handicap *float64, totalXP int) Tier {
	if handicap != nil && *handicap <= GoalHandicap {
		return TierPlatinum
	}
	if (handicap != nil && *handicap <= goldHandicap) || totalXP >= goldXP {
		return TierGold
	}
	if (handicap != nil && *handicap <= silverHandicap) || totalXP >= silverXP {
		return TierSilver
	}
	return TierBronze
}

// ProgressToGoal is the share of the starting-to-goal handicap distance
// already covered, in percent, clamped to [0, 100].
func ProgressToGoal(handicap *float64) float64 {
	current := StartingHandicap
	if handicap != nil {
		current = *handicap
	}

	progress := (StartingHandicap - current) / (StartingHandicap - GoalHandicap) * 100
	return clampPercentage(progress)
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
