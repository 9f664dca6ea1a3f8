package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgress(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 13, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	t.Run("new member starts at the bottom", func(t *testing.T) {
		t.Parallel()
		roundSource := &mockedUserRoundSource{t: t, expectedUserID: testUserID}
		ledger := &mockedLedgerSource{
			t:              t,
			expectedUserID: testUserID,
			snapshot:       domain.NewProgressSnapshot(testUserID),
		}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, err: domain.ErrMemberNotFound}

		getProgress := app.BuildGetProgress(roundSource, ledger, members, time.UTC, nowFunc)
		report, err := getProgress(context.Background(), testUserID)

		require.NoError(t, err)
		assert.Equal(t, testUserID, report.UserID)
		assert.Equal(t, 0, report.TotalXP)
		assert.Equal(t, 0, report.CompletedDrills)
		assert.InDelta(t, 0, report.PracticeHours, 1e-9)
		assert.Equal(t, 0, report.RoundCount)
		assert.Nil(t, report.Handicap)
		assert.Equal(t, domain.TierBronze, report.Tier)
		assert.InDelta(t, 0, report.ProgressToGoal, 1e-9)
		assert.Equal(t, 0, report.CurrentStreakDays)
		assert.Equal(t, 0, report.LongestStreakDays)
	})

	t.Run("active member with a handicap", func(t *testing.T) {
		t.Parallel()
		snapshot := domain.NewProgressSnapshot(testUserID)
		history := []domain.PracticeEntry{}
		// Three consecutive days ending yesterday
		for i := range 3 {
			entry := domaintest.NewPracticeBuilder(testUserID, now.AddDate(0, 0, -1-i)).
				WithDrillID("gate-putting").
				WithMinutes(60).
				Build()
			snapshot = snapshot.RecordCompletion(entry)
			history = append(history, entry)
		}

		member := domaintest.NewMemberBuilder(testUserID).WithHandicap(9.8).Build()

		roundSource := &mockedUserRoundSource{
			t:              t,
			expectedUserID: testUserID,
			rounds: []domain.Round{
				domaintest.NewRoundBuilder(testUserID, now.AddDate(0, 0, -2)).WithGross(88).Build(),
				domaintest.NewRoundBuilder(testUserID, now.AddDate(0, 0, -9)).WithGross(91).Build(),
			},
		}
		ledger := &mockedLedgerSource{
			t:              t,
			expectedUserID: testUserID,
			snapshot:       snapshot,
			history:        history,
		}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, member: &member}

		getProgress := app.BuildGetProgress(roundSource, ledger, members, time.UTC, nowFunc)
		report, err := getProgress(context.Background(), testUserID)

		require.NoError(t, err)
		assert.Equal(t, 3*600, report.TotalXP)
		assert.Equal(t, 1, report.CompletedDrills)
		assert.InDelta(t, 3, report.PracticeHours, 1e-9)
		assert.Equal(t, 2, report.RoundCount)
		require.NotNil(t, report.Handicap)
		assert.InDelta(t, 9.8, *report.Handicap, 1e-9)
		assert.Equal(t, domain.TierGold, report.Tier)
		// (12.0 - 9.8) / (12.0 - 8.7) of the way there
		assert.InDelta(t, 66.6666, report.ProgressToGoal, 0.001)
		assert.Equal(t, 3, report.CurrentStreakDays)
		assert.Equal(t, 3, report.LongestStreakDays)
	})

	t.Run("tier falls back to XP without a handicap", func(t *testing.T) {
		t.Parallel()
		snapshot := domain.NewProgressSnapshot(testUserID)
		snapshot.TotalXP = 3500

		roundSource := &mockedUserRoundSource{t: t, expectedUserID: testUserID}
		ledger := &mockedLedgerSource{t: t, expectedUserID: testUserID, snapshot: snapshot}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, err: domain.ErrMemberNotFound}

		getProgress := app.BuildGetProgress(roundSource, ledger, members, time.UTC, nowFunc)
		report, err := getProgress(context.Background(), testUserID)

		require.NoError(t, err)
		assert.Equal(t, domain.TierSilver, report.Tier)
		assert.Nil(t, report.Handicap)
	})

	t.Run("a lapsed streak keeps its longest run", func(t *testing.T) {
		t.Parallel()
		history := []domain.PracticeEntry{
			domaintest.NewPracticeBuilder(testUserID, now.AddDate(0, 0, -10)).Build(),
			domaintest.NewPracticeBuilder(testUserID, now.AddDate(0, 0, -9)).Build(),
			domaintest.NewPracticeBuilder(testUserID, now.AddDate(0, 0, -8)).Build(),
			domaintest.NewPracticeBuilder(testUserID, now.AddDate(0, 0, -7)).Build(),
		}

		roundSource := &mockedUserRoundSource{t: t, expectedUserID: testUserID}
		ledger := &mockedLedgerSource{
			t:              t,
			expectedUserID: testUserID,
			snapshot:       domain.NewProgressSnapshot(testUserID),
			history:        history,
		}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, err: domain.ErrMemberNotFound}

		getProgress := app.BuildGetProgress(roundSource, ledger, members, time.UTC, nowFunc)
		report, err := getProgress(context.Background(), testUserID)

		require.NoError(t, err)
		assert.Equal(t, 0, report.CurrentStreakDays)
		assert.Equal(t, 4, report.LongestStreakDays)
	})

	t.Run("record errors surface", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			name        string
			roundErr    error
			snapshotErr error
			historyErr  error
		}{
			{name: "rounds", roundErr: assert.AnError},
			{name: "snapshot", snapshotErr: assert.AnError},
			{name: "history", historyErr: assert.AnError},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				roundSource := &mockedUserRoundSource{t: t, expectedUserID: testUserID, err: tc.roundErr}
				ledger := &mockedLedgerSource{
					t:              t,
					expectedUserID: testUserID,
					snapshot:       domain.NewProgressSnapshot(testUserID),
					snapshotErr:    tc.snapshotErr,
					historyErr:     tc.historyErr,
				}
				members := &mockedMemberLookup{t: t, expectedUserID: testUserID}

				getProgress := app.BuildGetProgress(roundSource, ledger, members, time.UTC, nowFunc)
				report, err := getProgress(context.Background(), testUserID)

				require.ErrorIs(t, err, assert.AnError)
				require.Nil(t, report)
			})
		}
	})

	t.Run("rejects a user id that is not normalized", func(t *testing.T) {
		t.Parallel()
		roundSource := &mockedUserRoundSource{t: t}
		ledger := &mockedLedgerSource{t: t}
		members := &mockedMemberLookup{t: t}

		getProgress := app.BuildGetProgress(roundSource, ledger, members, time.UTC, nowFunc)
		report, err := getProgress(context.Background(), "12345678123412341234123456789012")

		require.Error(t, err)
		require.Nil(t, report)
		assert.False(t, ledger.snapshotCalled)
	})
}
