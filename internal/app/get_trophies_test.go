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

type mockedUserRoundSource struct {
	t              *testing.T
	expectedUserID string
	rounds         []domain.Round
	err            error
	listCalled     bool
}

func (m *mockedUserRoundSource) ListRoundsForUser(ctx context.Context, userID string) ([]domain.Round, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedUserID, userID)
	m.listCalled = true
	return m.rounds, m.err
}

type mockedLedgerSource struct {
	t              *testing.T
	expectedUserID string

	snapshot    domain.ProgressSnapshot
	snapshotErr error
	history     []domain.PracticeEntry
	historyErr  error

	snapshotCalled bool
	historyCalled  bool
}

func (m *mockedLedgerSource) Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedUserID, userID)
	m.snapshotCalled = true
	return m.snapshot, m.snapshotErr
}

func (m *mockedLedgerSource) History(ctx context.Context, userID string) ([]domain.PracticeEntry, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedUserID, userID)
	m.historyCalled = true
	return m.history, m.historyErr
}

type mockedMemberLookup struct {
	t              *testing.T
	expectedUserID string
	member         *domain.Member
	err            error
	getCalled      bool
}

func (m *mockedMemberLookup) GetMember(ctx context.Context, userID string) (*domain.Member, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedUserID, userID)
	m.getCalled = true
	return m.member, m.err
}

func TestGetTrophies(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	t.Run("evaluates records from all sources", func(t *testing.T) {
		t.Parallel()
		handicap := 9.5
		member := domaintest.NewMemberBuilder(testUserID).WithHandicap(handicap).Build()

		roundSource := &mockedUserRoundSource{
			t:              t,
			expectedUserID: testUserID,
			rounds: []domain.Round{
				domaintest.NewRoundBuilder(testUserID, day).WithGross(85).Build(),
			},
		}
		ledger := &mockedLedgerSource{
			t:              t,
			expectedUserID: testUserID,
			snapshot:       domain.NewProgressSnapshot(testUserID),
			history: []domain.PracticeEntry{
				domaintest.NewPracticeBuilder(testUserID, day).Build(),
				domaintest.NewPracticeBuilder(testUserID, day.AddDate(0, 0, 1)).Build(),
				domaintest.NewPracticeBuilder(testUserID, day.AddDate(0, 0, 2)).Build(),
			},
		}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, member: &member}

		getTrophies := app.BuildGetTrophies(roundSource, ledger, members, time.UTC)
		statuses, err := getTrophies(context.Background(), testUserID)

		require.NoError(t, err)
		require.True(t, roundSource.listCalled)
		require.True(t, ledger.snapshotCalled)
		require.True(t, ledger.historyCalled)
		require.True(t, members.getCalled)

		assert.True(t, statusByID(t, statuses, "breaking-90").Unlocked)
		assert.True(t, statusByID(t, statuses, "week-warrior").Unlocked)
		assert.True(t, statusByID(t, statuses, "first-tee").Unlocked)

		scratchBound := statusByID(t, statuses, "scratch-bound")
		assert.False(t, scratchBound.Unlocked)
		assert.InDelta(t, 9.5, scratchBound.Progress.Current, 1e-9)
	})

	t.Run("missing member leaves handicap trophies locked", func(t *testing.T) {
		t.Parallel()
		roundSource := &mockedUserRoundSource{t: t, expectedUserID: testUserID}
		ledger := &mockedLedgerSource{
			t:              t,
			expectedUserID: testUserID,
			snapshot:       domain.NewProgressSnapshot(testUserID),
		}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, err: domain.ErrMemberNotFound}

		getTrophies := app.BuildGetTrophies(roundSource, ledger, members, time.UTC)
		statuses, err := getTrophies(context.Background(), testUserID)

		require.NoError(t, err)
		scratchBound := statusByID(t, statuses, "scratch-bound")
		assert.False(t, scratchBound.Unlocked)
		assert.InDelta(t, 0, scratchBound.Progress.Percentage, 1e-9)
	})

	t.Run("member lookup failure does not fail the request", func(t *testing.T) {
		t.Parallel()
		roundSource := &mockedUserRoundSource{t: t, expectedUserID: testUserID}
		ledger := &mockedLedgerSource{
			t:              t,
			expectedUserID: testUserID,
			snapshot:       domain.NewProgressSnapshot(testUserID),
		}
		members := &mockedMemberLookup{t: t, expectedUserID: testUserID, err: assert.AnError}

		getTrophies := app.BuildGetTrophies(roundSource, ledger, members, time.UTC)
		statuses, err := getTrophies(context.Background(), testUserID)

		require.NoError(t, err)
		require.NotEmpty(t, statuses)
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

				getTrophies := app.BuildGetTrophies(roundSource, ledger, members, time.UTC)
				statuses, err := getTrophies(context.Background(), testUserID)

				require.ErrorIs(t, err, assert.AnError)
				require.Nil(t, statuses)
			})
		}
	})

	t.Run("rejects a user id that is not normalized", func(t *testing.T) {
		t.Parallel()
		roundSource := &mockedUserRoundSource{t: t}
		ledger := &mockedLedgerSource{t: t}
		members := &mockedMemberLookup{t: t}

		getTrophies := app.BuildGetTrophies(roundSource, ledger, members, time.UTC)
		statuses, err := getTrophies(context.Background(), "not-a-user-id")

		require.Error(t, err)
		require.Nil(t, statuses)
		assert.False(t, roundSource.listCalled)
		assert.False(t, ledger.snapshotCalled)
	})
}
