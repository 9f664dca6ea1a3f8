package app_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusByID(t *testing.T, statuses []domain.TrophyStatus, id string) domain.TrophyStatus {
	t.Helper()
	for _, status := range statuses {
		if status.ID == id {
			return status
		}
	}
	require.FailNowf(t, "trophy not found", "no trophy with id %q", id)
	return domain.TrophyStatus{}
}

func TestEvaluateTrophiesNewUser(t *testing.T) {
	t.Parallel()

	statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, nil, nil, time.UTC)

	require.NotEmpty(t, statuses)
	for _, status := range statuses {
		assert.False(t, status.Unlocked, "trophy %s unlocked with no records", status.ID)
	}

	firstSteps := statusByID(t, statuses, "first-steps")
	assert.InDelta(t, 0, firstSteps.Progress.Current, 1e-9)
	assert.InDelta(t, 1, firstSteps.Progress.Target, 1e-9)
	assert.InDelta(t, 0, firstSteps.Progress.Percentage, 1e-9)
}

func TestEvaluateTrophiesScoring(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	t.Run("an 85 breaks 100 and 90 but not 80", func(t *testing.T) {
		t.Parallel()
		rounds := []domain.Round{
			domaintest.NewRoundBuilder(testUserID, day).WithGross(85).WithHandicap(10.0).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), rounds, nil, nil, time.UTC)

		breaking100 := statusByID(t, statuses, "breaking-100")
		assert.True(t, breaking100.Unlocked)
		assert.InDelta(t, 100, breaking100.Progress.Percentage, 1e-9)

		breaking90 := statusByID(t, statuses, "breaking-90")
		assert.True(t, breaking90.Unlocked)
		assert.InDelta(t, 100, breaking90.Progress.Percentage, 1e-9)

		breaking80 := statusByID(t, statuses, "breaking-80")
		assert.False(t, breaking80.Unlocked)
		assert.InDelta(t, 85, breaking80.Progress.Current, 1e-9)
		// (90 - 85) / (90 - 79) of the way there
		assert.InDelta(t, 45.4545, breaking80.Progress.Percentage, 0.001)
	})

	t.Run("nine hole scores do not count", func(t *testing.T) {
		t.Parallel()
		rounds := []domain.Round{
			domaintest.NewRoundBuilder(testUserID, day).WithHoles(9).WithGross(40).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), rounds, nil, nil, time.UTC)

		breaking100 := statusByID(t, statuses, "breaking-100")
		assert.False(t, breaking100.Unlocked)
		assert.InDelta(t, 0, breaking100.Progress.Percentage, 1e-9)
	})

	t.Run("handicap at the goal unlocks scratch bound", func(t *testing.T) {
		t.Parallel()
		handicap := 8.7
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, nil, &handicap, time.UTC)

		scratchBound := statusByID(t, statuses, "scratch-bound")
		assert.True(t, scratchBound.Unlocked)
		assert.InDelta(t, 100, scratchBound.Progress.Percentage, 1e-9)
	})

	t.Run("handicap partway to the goal", func(t *testing.T) {
		t.Parallel()
		handicap := 9.5
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, nil, &handicap, time.UTC)

		scratchBound := statusByID(t, statuses, "scratch-bound")
		assert.False(t, scratchBound.Unlocked)
		// (12.0 - 9.5) / (12.0 - 8.7) of the way there
		assert.InDelta(t, 75.7575, scratchBound.Progress.Percentage, 0.001)
	})

	t.Run("no handicap sits at zero percent", func(t *testing.T) {
		t.Parallel()
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, nil, nil, time.UTC)

		scratchBound := statusByID(t, statuses, "scratch-bound")
		assert.False(t, scratchBound.Unlocked)
		assert.InDelta(t, 0, scratchBound.Progress.Percentage, 1e-9)
	})

	t.Run("putting machine measures the best full round", func(t *testing.T) {
		t.Parallel()
		rounds := []domain.Round{
			domaintest.NewRoundBuilder(testUserID, day).WithPutts(33).Build(),
			domaintest.NewRoundBuilder(testUserID, day.AddDate(0, 0, -7)).WithHoles(9).WithPutts(12).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), rounds, nil, nil, time.UTC)

		puttingMachine := statusByID(t, statuses, "putting-machine")
		assert.False(t, puttingMachine.Unlocked)
		assert.InDelta(t, 33, puttingMachine.Progress.Current, 1e-9)
		assert.InDelta(t, 70, puttingMachine.Progress.Percentage, 1e-9)
	})
}

func TestEvaluateTrophiesStreaks(t *testing.T) {
	t.Parallel()

	at := func(day string) time.Time {
		t.Helper()
		parsed, err := time.Parse("2006-01-02 15:04", day)
		require.NoError(t, err)
		return parsed
	}

	t.Run("three days in a row unlock week warrior", func(t *testing.T) {
		t.Parallel()
		practice := []domain.PracticeEntry{
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-10 08:00")).Build(),
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-11 21:30")).Build(),
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-12 14:00")).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, practice, nil, time.UTC)

		weekWarrior := statusByID(t, statuses, "week-warrior")
		assert.True(t, weekWarrior.Unlocked)
		assert.InDelta(t, 100, weekWarrior.Progress.Percentage, 1e-9)

		fullWeek := statusByID(t, statuses, "full-week")
		assert.False(t, fullWeek.Unlocked)
		assert.InDelta(t, 3, fullWeek.Progress.Current, 1e-9)
	})

	t.Run("a day gap breaks the streak", func(t *testing.T) {
		t.Parallel()
		practice := []domain.PracticeEntry{
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-01 10:00")).Build(),
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-03 10:00")).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, practice, nil, time.UTC)

		weekWarrior := statusByID(t, statuses, "week-warrior")
		assert.False(t, weekWarrior.Unlocked)
		assert.InDelta(t, 1, weekWarrior.Progress.Current, 1e-9)
	})

	t.Run("multiple entries on one day count once", func(t *testing.T) {
		t.Parallel()
		practice := []domain.PracticeEntry{
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-10 08:00")).Build(),
			domaintest.NewPracticeBuilder(testUserID, at("2024-06-10 20:00")).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, practice, nil, time.UTC)

		weekWarrior := statusByID(t, statuses, "week-warrior")
		assert.InDelta(t, 1, weekWarrior.Progress.Current, 1e-9)
	})

	t.Run("midnight straddle counts as two days in the club timezone", func(t *testing.T) {
		t.Parallel()
		oslo, err := time.LoadLocation("Europe/Oslo")
		require.NoError(t, err)

		// 23:30 and 00:30 local time on consecutive calendar days
		practice := []domain.PracticeEntry{
			domaintest.NewPracticeBuilder(testUserID, time.Date(2024, time.June, 10, 23, 30, 0, 0, oslo).UTC()).Build(),
			domaintest.NewPracticeBuilder(testUserID, time.Date(2024, time.June, 11, 0, 30, 0, 0, oslo).UTC()).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, practice, nil, oslo)

		weekWarrior := statusByID(t, statuses, "week-warrior")
		assert.InDelta(t, 2, weekWarrior.Progress.Current, 1e-9)
	})
}

func TestEvaluateTrophiesPractice(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	t.Run("monthly legend groups by calendar month", func(t *testing.T) {
		t.Parallel()

		// 10 hours at the end of May plus 10 at the start of June: no single
		// month reaches 20
		practice := []domain.PracticeEntry{
			domaintest.NewPracticeBuilder(testUserID, time.Date(2024, time.May, 31, 10, 0, 0, 0, time.UTC)).WithMinutes(600).Build(),
			domaintest.NewPracticeBuilder(testUserID, time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)).WithMinutes(600).Build(),
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, practice, nil, time.UTC)

		monthlyLegend := statusByID(t, statuses, "monthly-legend")
		assert.False(t, monthlyLegend.Unlocked)
		assert.InDelta(t, 10, monthlyLegend.Progress.Current, 1e-9)
		assert.InDelta(t, 50, monthlyLegend.Progress.Percentage, 1e-9)
	})

	t.Run("twenty hours in one month unlocks monthly legend", func(t *testing.T) {
		t.Parallel()
		practice := []domain.PracticeEntry{}
		for i := range 10 {
			practice = append(practice, domaintest.NewPracticeBuilder(testUserID, at.AddDate(0, 0, -i)).
				WithMinutes(120).
				Build())
		}
		statuses := app.EvaluateTrophies(domain.NewProgressSnapshot(testUserID), nil, practice, nil, time.UTC)

		monthlyLegend := statusByID(t, statuses, "monthly-legend")
		assert.True(t, monthlyLegend.Unlocked)
	})

	t.Run("library trophies read the snapshot", func(t *testing.T) {
		t.Parallel()
		snapshot := domain.NewProgressSnapshot(testUserID)
		for i := range 6 {
			snapshot = snapshot.RecordCompletion(domaintest.NewPracticeBuilder(testUserID, at.AddDate(0, 0, -i)).
				WithDrillID(fmt.Sprintf("drill-%d", i)).
				WithMinutes(30).
				Build())
		}
		statuses := app.EvaluateTrophies(snapshot, nil, nil, nil, time.UTC)

		curiousStudent := statusByID(t, statuses, "curious-student")
		assert.True(t, curiousStudent.Unlocked)

		drillScholar := statusByID(t, statuses, "drill-scholar")
		assert.False(t, drillScholar.Unlocked)
		assert.InDelta(t, 6, drillScholar.Progress.Current, 1e-9)
		assert.InDelta(t, 40, drillScholar.Progress.Percentage, 1e-9)

		risingTalent := statusByID(t, statuses, "rising-talent")
		assert.InDelta(t, 6*300, risingTalent.Progress.Current, 1e-9)
	})
}

func TestEvaluateTrophiesInvariants(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	lowHandicap := 4.2
	highHandicap := 36.0

	richSnapshot := domain.NewProgressSnapshot(testUserID)
	for i := range 40 {
		richSnapshot = richSnapshot.RecordCompletion(domaintest.NewPracticeBuilder(testUserID, day.AddDate(0, 0, -i)).
			WithDrillID(fmt.Sprintf("drill-%d", i)).
			WithMinutes(45).
			Build())
	}

	richRounds := []domain.Round{}
	for i := range 60 {
		richRounds = append(richRounds, domaintest.NewRoundBuilder(testUserID, day.AddDate(0, 0, -i)).
			WithGross(72+i%10).
			WithHandicap(5.0).
			WithPutts(26+i%8).
			WithBirdies(2).
			WithEagles(i%7).
			WithUpAndDowns(3, 1).
			Build())
	}

	richPractice := []domain.PracticeEntry{}
	for i := range 90 {
		richPractice = append(richPractice, domaintest.NewPracticeBuilder(testUserID, day.AddDate(0, 0, -i)).
			WithTitle(fmt.Sprintf("Session %d", i)).
			WithMinutes(90).
			Build())
	}

	inputs := []struct {
		name     string
		snapshot domain.ProgressSnapshot
		rounds   []domain.Round
		practice []domain.PracticeEntry
		handicap *float64
	}{
		{name: "new user", snapshot: domain.NewProgressSnapshot(testUserID)},
		{
			name:     "modest records",
			snapshot: domain.NewProgressSnapshot(testUserID),
			rounds: []domain.Round{
				domaintest.NewRoundBuilder(testUserID, day).WithGross(104).WithPutts(41).Build(),
			},
			practice: []domain.PracticeEntry{
				domaintest.NewPracticeBuilder(testUserID, day).WithMinutes(25).Build(),
			},
			handicap: &highHandicap,
		},
		{
			name:     "records far past every target",
			snapshot: richSnapshot,
			rounds:   richRounds,
			practice: richPractice,
			handicap: &lowHandicap,
		},
	}

	for _, input := range inputs {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()
			statuses := app.EvaluateTrophies(input.snapshot, input.rounds, input.practice, input.handicap, time.UTC)

			seen := map[string]bool{}
			categories := map[domain.TrophyCategory]bool{}
			for _, status := range statuses {
				require.False(t, seen[status.ID], "duplicate trophy id %s", status.ID)
				seen[status.ID] = true
				categories[status.Category] = true

				require.GreaterOrEqual(t, status.Progress.Percentage, 0.0, "trophy %s", status.ID)
				require.LessOrEqual(t, status.Progress.Percentage, 100.0, "trophy %s", status.ID)
				if status.Unlocked {
					require.InDelta(t, 100, status.Progress.Percentage, 1e-9, "trophy %s unlocked below 100%%", status.ID)
				}
			}
			require.Len(t, categories, 5)
		})
	}
}
