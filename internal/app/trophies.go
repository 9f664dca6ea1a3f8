package app

import (
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
)

// trophyInput is everything a trophy rule may inspect. All fields tolerate
// their zero value so rules stay total over brand new users.
type trophyInput struct {
	snapshot domain.ProgressSnapshot
	rounds   []domain.Round
	practice []domain.PracticeEntry
	handicap *float64
	location *time.Location
}

type trophyDefinition struct {
	id          string
	name        string
	requirement string
	category    domain.TrophyCategory
	evaluate    func(in trophyInput) (bool, domain.TrophyProgress)
}

// thresholdTrophy unlocks when current reaches target. Progress runs linearly
// from 0 to 100.
func thresholdTrophy(target float64, current func(in trophyInput) float64) func(in trophyInput) (bool, domain.TrophyProgress) {
	return func(in trophyInput) (bool, domain.TrophyProgress) {
		value := current(in)
		percentage := clampPercentage(value / target * 100)
		return value >= target, domain.TrophyProgress{
			Current:    value,
			Target:     target,
			Percentage: percentage,
		}
	}
}

// inverseTrophy unlocks when current drops to goal or below. Progress measures
// the distance covered from start towards goal, so a player who has never
// recorded a qualifying value sits at 0%.
func inverseTrophy(start, goal float64, current func(in trophyInput) (float64, bool)) func(in trophyInput) (bool, domain.TrophyProgress) {
	return func(in trophyInput) (bool, domain.TrophyProgress) {
		value, ok := current(in)
		if !ok {
			value = start
		}
		percentage := clampPercentage((start - value) / (start - goal) * 100)
		return ok && value <= goal, domain.TrophyProgress{
			Current:    value,
			Target:     goal,
			Percentage: percentage,
		}
	}
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

func practiceTimes(in trophyInput) []time.Time {
	times := make([]time.Time, 0, len(in.practice))
	for _, entry := range in.practice {
		times = append(times, entry.LoggedAt)
	}
	return times
}

func totalPracticeHours(in trophyInput) float64 {
	return ComputePracticeHours(in.practice)
}

// bestMonthlyPracticeHours groups practice by calendar month in the
// configured location and returns the biggest monthly total.
func bestMonthlyPracticeHours(in trophyInput) float64 {
	type yearMonth struct {
		year  int
		month time.Month
	}
	minutesByMonth := map[yearMonth]int{}
	for _, entry := range in.practice {
		local := entry.LoggedAt.In(in.location)
		key := yearMonth{year: local.Year(), month: local.Month()}
		minutesByMonth[key] += entry.DurationMinutes()
	}

	best := 0
	for _, minutes := range minutesByMonth {
		best = max(best, minutes)
	}
	return float64(best) / 60
}

func bestGross(in trophyInput) (float64, bool) {
	return ComputeLowGross(in.rounds)
}

func bestPutts(in trophyInput) (float64, bool) {
	best := 0
	found := false
	for _, round := range in.rounds {
		if !round.IsFullRound() || round.Putts <= 0 {
			continue
		}
		if !found || round.Putts < best {
			best = round.Putts
		}
		found = true
	}
	return float64(best), found
}

func currentHandicap(in trophyInput) (float64, bool) {
	if in.handicap == nil {
		return 0, false
	}
	return *in.handicap, true
}

func totalBirdies(in trophyInput) float64 {
	total := 0
	for _, round := range in.rounds {
		total += round.Birdies
	}
	return float64(total)
}

func totalEagles(in trophyInput) float64 {
	total := 0
	for _, round := range in.rounds {
		total += round.Eagles
	}
	return float64(total)
}

func totalUpAndDowns(in trophyInput) float64 {
	total := 0
	for _, round := range in.rounds {
		total += round.UpAndDownsMade
	}
	return float64(total)
}

// trophyCatalog is the full cabinet. Order here is presentation order.
var trophyCatalog = []trophyDefinition{
	{
		id:          "first-steps",
		name:        "First Steps",
		requirement: "Log your first hour of practice",
		category:    domain.TrophyCategoryPractice,
		evaluate:    thresholdTrophy(1, totalPracticeHours),
	},
	{
		id:          "range-regular",
		name:        "Range Regular",
		requirement: "Log 10 hours of practice",
		category:    domain.TrophyCategoryPractice,
		evaluate:    thresholdTrophy(10, totalPracticeHours),
	},
	{
		id:          "grind-master",
		name:        "Grind Master",
		requirement: "Log 50 hours of practice",
		category:    domain.TrophyCategoryPractice,
		evaluate:    thresholdTrophy(50, totalPracticeHours),
	},
	{
		id:          "week-warrior",
		name:        "Week Warrior",
		requirement: "Practice 3 days in a row",
		category:    domain.TrophyCategoryPractice,
		evaluate: thresholdTrophy(3, func(in trophyInput) float64 {
			return float64(domain.LongestStreak(practiceTimes(in), in.location))
		}),
	},
	{
		id:          "full-week",
		name:        "Full Week",
		requirement: "Practice 7 days in a row",
		category:    domain.TrophyCategoryPractice,
		evaluate: thresholdTrophy(7, func(in trophyInput) float64 {
			return float64(domain.LongestStreak(practiceTimes(in), in.location))
		}),
	},
	{
		id:          "monthly-legend",
		name:        "Monthly Legend",
		requirement: "Practice 20 hours within one calendar month",
		category:    domain.TrophyCategoryPractice,
		evaluate:    thresholdTrophy(20, bestMonthlyPracticeHours),
	},
	{
		id:          "curious-student",
		name:        "Curious Student",
		requirement: "Complete 5 different drills from the library",
		category:    domain.TrophyCategoryKnowledge,
		evaluate: thresholdTrophy(5, func(in trophyInput) float64 {
			return float64(in.snapshot.CompletedCount())
		}),
	},
	{
		id:          "drill-scholar",
		name:        "Drill Scholar",
		requirement: "Complete 15 different drills from the library",
		category:    domain.TrophyCategoryKnowledge,
		evaluate: thresholdTrophy(15, func(in trophyInput) float64 {
			return float64(in.snapshot.CompletedCount())
		}),
	},
	{
		id:          "academy-graduate",
		name:        "Academy Graduate",
		requirement: "Complete every drill in the library",
		category:    domain.TrophyCategoryKnowledge,
		// NOTE: The target follows the catalog, so the trophy re-locks when
		// new drills ship until they are completed too.
		evaluate: thresholdTrophy(float64(len(drillCatalog)), func(in trophyInput) float64 {
			return float64(in.snapshot.CompletedCount())
		}),
	},
	{
		id:          "birdie-hunter",
		name:        "Birdie Hunter",
		requirement: "Card 10 birdies",
		category:    domain.TrophyCategoryPerformance,
		evaluate:    thresholdTrophy(10, totalBirdies),
	},
	{
		id:          "eagle-eye",
		name:        "Eagle Eye",
		requirement: "Card an eagle",
		category:    domain.TrophyCategoryPerformance,
		evaluate:    thresholdTrophy(1, totalEagles),
	},
	{
		id:          "scrambler",
		name:        "Scrambler",
		requirement: "Get up and down 25 times",
		category:    domain.TrophyCategoryPerformance,
		evaluate:    thresholdTrophy(25, totalUpAndDowns),
	},
	{
		id:          "putting-machine",
		name:        "Putting Machine",
		requirement: "Take 30 putts or fewer in a full round",
		category:    domain.TrophyCategoryPerformance,
		evaluate:    inverseTrophy(40, 30, bestPutts),
	},
	{
		id:          "first-tee",
		name:        "First Tee",
		requirement: "Log your first round",
		category:    domain.TrophyCategoryMilestone,
		evaluate: thresholdTrophy(1, func(in trophyInput) float64 {
			return float64(len(in.rounds))
		}),
	},
	{
		id:          "course-regular",
		name:        "Course Regular",
		requirement: "Log 10 rounds",
		category:    domain.TrophyCategoryMilestone,
		evaluate: thresholdTrophy(10, func(in trophyInput) float64 {
			return float64(len(in.rounds))
		}),
	},
	{
		id:          "club-veteran",
		name:        "Club Veteran",
		requirement: "Log 50 rounds",
		category:    domain.TrophyCategoryMilestone,
		evaluate: thresholdTrophy(50, func(in trophyInput) float64 {
			return float64(len(in.rounds))
		}),
	},
	{
		id:          "rising-talent",
		name:        "Rising Talent",
		requirement: "Earn 1000 XP",
		category:    domain.TrophyCategoryMilestone,
		evaluate: thresholdTrophy(1000, func(in trophyInput) float64 {
			return float64(in.snapshot.TotalXP)
		}),
	},
	{
		id:          "seasoned-campaigner",
		name:        "Seasoned Campaigner",
		requirement: "Earn 5000 XP",
		category:    domain.TrophyCategoryMilestone,
		evaluate: thresholdTrophy(5000, func(in trophyInput) float64 {
			return float64(in.snapshot.TotalXP)
		}),
	},
	{
		id:          "breaking-100",
		name:        "Breaking 100",
		requirement: "Score below 100 in a full round",
		category:    domain.TrophyCategoryScoringMilestones,
		evaluate:    inverseTrophy(120, 99, bestGross),
	},
	{
		id:          "breaking-90",
		name:        "Breaking 90",
		requirement: "Score below 90 in a full round",
		category:    domain.TrophyCategoryScoringMilestones,
		evaluate:    inverseTrophy(100, 89, bestGross),
	},
	{
		id:          "breaking-80",
		name:        "Breaking 80",
		requirement: "Score below 80 in a full round",
		category:    domain.TrophyCategoryScoringMilestones,
		evaluate:    inverseTrophy(90, 79, bestGross),
	},
	{
		id:          "scratch-bound",
		name:        "Scratch Bound",
		requirement: "Bring your handicap down to 8.7",
		category:    domain.TrophyCategoryScoringMilestones,
		evaluate:    inverseTrophy(domain.StartingHandicap, domain.GoalHandicap, currentHandicap),
	},
}

// EvaluateTrophies runs the whole catalog against one user's records. Nothing
// is persisted: unlocks are recomputed from scratch on every call, so a trophy
// can regress only if the underlying records do.
func EvaluateTrophies(
	snapshot domain.ProgressSnapshot,
	rounds []domain.Round,
	practice []domain.PracticeEntry,
	handicap *float64,
	location *time.Location,
) []domain.TrophyStatus {
	if location == nil {
		location = time.UTC
	}

	in := trophyInput{
		snapshot: snapshot,
		rounds:   rounds,
		practice: practice,
		handicap: handicap,
		location: location,
	}

	statuses := make([]domain.TrophyStatus, 0, len(trophyCatalog))
	for _, def := range trophyCatalog {
		unlocked, progress := def.evaluate(in)
		statuses = append(statuses, domain.TrophyStatus{
			ID:          def.id,
			Name:        def.name,
			Requirement: def.requirement,
			Category:    def.category,
			Unlocked:    unlocked,
			Progress:    progress,
		})
	}
	return statuses
}
