package ports_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/domaintest"
	"github.com/fairwaylabs/teeline/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestMakeLogRoundHandler(t *testing.T) {
	t.Parallel()

	allowedOrigins := testDomainSuffixes(t)

	playedAt := time.Date(2024, 5, 11, 9, 30, 0, 0, time.UTC)
	stored := domaintest.NewRoundBuilder(portsUserAnna, playedAt).
		WithID("round-1").
		WithCourse("Sunnfjord Links").
		WithGross(85).
		WithHandicap(11.4).
		WithPutts(33).
		WithBirdies(1).
		Build()

	makeLogRound := func(t *testing.T, expectedUserID string, stored domain.Round, err error) (func(ctx context.Context, round domain.Round) (*domain.Round, error), *bool) {
		called := false
		return func(ctx context.Context, round domain.Round) (*domain.Round, error) {
			require.Equal(t, expectedUserID, round.UserID)
			called = true
			if err != nil {
				return nil, err
			}
			return &stored, nil
		}, &called
	}

	makeRequest := func(userID string, body string) *http.Request {
		req := httptest.NewRequest("POST", "/v1/rounds", io.NopCloser(strings.NewReader(body)))
		if userID != "" {
			req.Header.Set("X-User-Id", userID)
		}
		return req
	}

	fullBody := fmt.Sprintf(
		`{"course":"Sunnfjord Links","playedAt":"%s","holes":18,"grossScore":85,"handicap":11.4,"putts":33,"birdies":1}`,
		playedAt.Format(time.RFC3339),
	)

	t.Run("successful round logging", func(t *testing.T) {
		t.Parallel()

		logRound, called := makeLogRound(t, portsUserAnna, stored, nil)
		handler := ports.MakeLogRoundHandler(logRound, allowedOrigins, testLogger(), noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, makeRequest(portsUserAnna, fullBody))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		expected, err := ports.RoundToResponseData(&stored)
		require.NoError(t, err)
		require.JSONEq(t, string(expected), w.Body.String())
		require.True(t, *called)
	})

	t.Run("round owner comes from the header", func(t *testing.T) {
		t.Parallel()

		logRound := func(ctx context.Context, round domain.Round) (*domain.Round, error) {
			require.Equal(t, portsUserBirk, round.UserID)
			require.Equal(t, "Sunnfjord Links", round.Course)
			require.Equal(t, 18, round.Holes)
			require.NotNil(t, round.GrossScore)
			require.Equal(t, 85, *round.GrossScore)
			return &round, nil
		}
		handler := ports.MakeLogRoundHandler(logRound, allowedOrigins, testLogger(), noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, makeRequest(portsUserBirk, fullBody))

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()

		logRound, called := makeLogRound(t, "", domain.Round{}, nil)
		handler := ports.MakeLogRoundHandler(logRound, allowedOrigins, testLogger(), noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, makeRequest("", fullBody))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid user id")
		require.False(t, *called)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		logRound, called := makeLogRound(t, portsUserAnna, stored, nil)
		handler := ports.MakeLogRoundHandler(logRound, allowedOrigins, testLogger(), noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, makeRequest(portsUserAnna, `{"holes":`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "Failed to parse request body")
		require.False(t, *called)
	})

	t.Run("round rejected as invalid", func(t *testing.T) {
		t.Parallel()

		logRound, called := makeLogRound(t, portsUserAnna, domain.Round{}, fmt.Errorf("%w: holes must be 9 or 18, got 12", domain.ErrInvalidRound))
		handler := ports.MakeLogRoundHandler(logRound, allowedOrigins, testLogger(), noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, makeRequest(portsUserAnna, `{"course":"Sunnfjord Links","holes":12}`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid round")
		require.True(t, *called)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		logRound, called := makeLogRound(t, portsUserAnna, domain.Round{}, errors.New("database gone"))
		handler := ports.MakeLogRoundHandler(logRound, allowedOrigins, testLogger(), noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, makeRequest(portsUserAnna, fullBody))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.True(t, *called)
	})
}
