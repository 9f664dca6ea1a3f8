package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/domaintest"
	"github.com/fairwaylabs/teeline/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockedRoundWriter struct {
	t           *testing.T
	err         error
	storeCalled bool
	stored      domain.Round
}

func (m *mockedRoundWriter) StoreRound(ctx context.Context, round domain.Round) error {
	m.t.Helper()
	require.False(m.t, m.storeCalled)
	m.storeCalled = true
	m.stored = round
	return m.err
}

type mockedHandicapWriter struct {
	t                *testing.T
	expectedUserID   string
	expectedHandicap float64
	err              error
	updateCalled     bool
}

func (m *mockedHandicapWriter) UpdateHandicap(ctx context.Context, userID string, handicap float64) error {
	m.t.Helper()
	require.Equal(m.t, m.expectedUserID, userID)
	require.InDelta(m.t, m.expectedHandicap, handicap, 1e-9)
	require.False(m.t, m.updateCalled)
	m.updateCalled = true
	return m.err
}

func requireSignal(t *testing.T, ch <-chan notify.Topic, topic notify.Topic) {
	t.Helper()
	select {
	case received := <-ch:
		require.Equal(t, topic, received)
	default:
		require.FailNow(t, "expected a change signal")
	}
}

func requireNoSignal(t *testing.T, ch <-chan notify.Topic) {
	t.Helper()
	select {
	case <-ch:
		require.FailNow(t, "expected no change signal")
	default:
	}
}

func TestLogRound(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }
	newID := func() string { return "generated-round-id" }

	t.Run("fills in id and time when absent", func(t *testing.T) {
		t.Parallel()
		writer := &mockedRoundWriter{t: t}
		members := &mockedHandicapWriter{t: t}
		bus := notify.NewBus()
		signals, cancel := bus.Subscribe(notify.TopicRoundsChanged)
		defer cancel()

		logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
		stored, err := logRound(context.Background(), domain.Round{
			UserID: testUserID,
			Course: "Sunnfjord Links",
			Holes:  18,
		})

		require.NoError(t, err)
		require.True(t, writer.storeCalled)
		assert.Equal(t, "generated-round-id", stored.ID)
		assert.Equal(t, now, stored.PlayedAt)
		assert.Equal(t, "generated-round-id", writer.stored.ID)
		assert.False(t, members.updateCalled)
		requireSignal(t, signals, notify.TopicRoundsChanged)
	})

	t.Run("keeps a supplied id and time", func(t *testing.T) {
		t.Parallel()
		writer := &mockedRoundWriter{t: t}
		members := &mockedHandicapWriter{t: t}
		bus := notify.NewBus()

		playedAt := now.AddDate(0, 0, -3)
		round := domaintest.NewRoundBuilder(testUserID, playedAt).WithID("client-id").Build()

		logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
		stored, err := logRound(context.Background(), round)

		require.NoError(t, err)
		assert.Equal(t, "client-id", stored.ID)
		assert.Equal(t, playedAt, stored.PlayedAt)
	})

	t.Run("normalizes the user id before storing", func(t *testing.T) {
		t.Parallel()
		writer := &mockedRoundWriter{t: t}
		members := &mockedHandicapWriter{t: t}
		bus := notify.NewBus()

		round := domaintest.NewRoundBuilder("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", now).Build()

		logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
		stored, err := logRound(context.Background(), round)

		require.NoError(t, err)
		assert.Equal(t, userAnna, stored.UserID)
		assert.Equal(t, userAnna, writer.stored.UserID)
	})

	t.Run("carries the handicap to the member record", func(t *testing.T) {
		t.Parallel()
		writer := &mockedRoundWriter{t: t}
		members := &mockedHandicapWriter{t: t, expectedUserID: testUserID, expectedHandicap: 11.4}
		bus := notify.NewBus()

		round := domaintest.NewRoundBuilder(testUserID, now).WithGross(92).WithHandicap(11.4).Build()

		logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
		_, err := logRound(context.Background(), round)

		require.NoError(t, err)
		require.True(t, members.updateCalled)
	})

	t.Run("losing the handicap update keeps the round", func(t *testing.T) {
		t.Parallel()
		writer := &mockedRoundWriter{t: t}
		members := &mockedHandicapWriter{t: t, expectedUserID: testUserID, expectedHandicap: 11.4, err: assert.AnError}
		bus := notify.NewBus()
		signals, cancel := bus.Subscribe(notify.TopicRoundsChanged)
		defer cancel()

		round := domaintest.NewRoundBuilder(testUserID, now).WithHandicap(11.4).Build()

		logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
		stored, err := logRound(context.Background(), round)

		require.NoError(t, err)
		require.NotNil(t, stored)
		require.True(t, writer.storeCalled)
		requireSignal(t, signals, notify.TopicRoundsChanged)
	})

	t.Run("rejects invalid rounds", func(t *testing.T) {
		t.Parallel()
		gross := 0
		cases := []struct {
			name  string
			round domain.Round
		}{
			{
				name:  "bad user id",
				round: domain.Round{UserID: "not-a-user", Holes: 18, PlayedAt: now},
			},
			{
				name:  "no holes",
				round: domain.Round{UserID: testUserID, PlayedAt: now},
			},
			{
				name:  "twelve holes",
				round: domain.Round{UserID: testUserID, Holes: 12, PlayedAt: now},
			},
			{
				name:  "zero gross",
				round: domain.Round{UserID: testUserID, Holes: 18, PlayedAt: now, GrossScore: &gross},
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				writer := &mockedRoundWriter{t: t}
				members := &mockedHandicapWriter{t: t}
				bus := notify.NewBus()
				signals, cancel := bus.Subscribe(notify.TopicRoundsChanged)
				defer cancel()

				logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
				stored, err := logRound(context.Background(), tc.round)

				require.ErrorIs(t, err, domain.ErrInvalidRound)
				require.Nil(t, stored)
				assert.False(t, writer.storeCalled)
				requireNoSignal(t, signals)
			})
		}
	})

	t.Run("store errors surface without a signal", func(t *testing.T) {
		t.Parallel()
		writer := &mockedRoundWriter{t: t, err: assert.AnError}
		members := &mockedHandicapWriter{t: t}
		bus := notify.NewBus()
		signals, cancel := bus.Subscribe(notify.TopicRoundsChanged)
		defer cancel()

		round := domaintest.NewRoundBuilder(testUserID, now).WithHandicap(10.0).Build()

		logRound := app.BuildLogRound(writer, members, bus, newID, nowFunc)
		stored, err := logRound(context.Background(), round)

		require.ErrorIs(t, err, assert.AnError)
		require.Nil(t, stored)
		assert.False(t, members.updateCalled)
		requireNoSignal(t, signals)
	})
}
