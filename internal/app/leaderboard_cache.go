package app

import (
	"context"
	"fmt"

	"github.com/fairwaylabs/teeline/internal/adapters/cache"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/notify"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

func leaderboardCacheKey(metric domain.Metric, window domain.TimeWindow) string {
	return string(metric) + ":" + string(window)
}

// BuildGetLeaderboardWithCache shares one computed board per metric and window
// across all requesters. The cached board is user-agnostic; the requesting
// user's rank is resolved against it per call.
func BuildGetLeaderboardWithCache(
	getLeaderboard GetLeaderboard,
	boardCache cache.Cache[*domain.Leaderboard],
) GetLeaderboard {
	return func(ctx context.Context, userID string, metric domain.Metric, window domain.TimeWindow) (*domain.Leaderboard, error) {
		if userID != "" && !strutils.UserIDIsNormalized(userID) {
			err := fmt.Errorf("user ID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
				"metric": string(metric),
				"window": string(window),
			})
			return nil, err
		}

		board, err := cache.GetOrCreate(ctx, boardCache, leaderboardCacheKey(metric, window), func() (*domain.Leaderboard, error) {
			return getLeaderboard(ctx, "", metric, window)
		})
		if err != nil {
			// NOTE: GetOrCreate only returns an error if create() fails.
			// BuildGetLeaderboard handles its own error reporting
			return nil, fmt.Errorf("failed to cache.GetOrCreate leaderboard: %w", err)
		}

		return resolveUserRank(board, userID), nil
	}
}

// resolveUserRank copies the board shell and fills in the requesting user's
// standing. Entries are shared with the cached board and must not be mutated.
func resolveUserRank(board *domain.Leaderboard, userID string) *domain.Leaderboard {
	resolved := *board
	resolved.UserRank = 0
	resolved.UserValue = 0

	if userID == "" {
		return &resolved
	}
	for _, entry := range board.Entries {
		if entry.UserID == userID {
			resolved.UserRank = entry.Rank
			resolved.UserValue = entry.Value
			break
		}
	}
	return &resolved
}

// RunLeaderboardCacheInvalidator drops every cached board when records change,
// so the next read recomputes from the stores. Blocks until ctx is done;
// callers run it on its own goroutine.
func RunLeaderboardCacheInvalidator(
	ctx context.Context,
	bus *notify.Bus,
	boardCache cache.Cache[*domain.Leaderboard],
) {
	rounds, cancelRounds := bus.Subscribe(notify.TopicRoundsChanged)
	defer cancelRounds()
	practice, cancelPractice := bus.Subscribe(notify.TopicPracticeChanged)
	defer cancelPractice()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rounds:
		case <-practice:
		}

		for _, metric := range domain.AllMetrics {
			for _, window := range domain.AllTimeWindows {
				cache.Invalidate(boardCache, leaderboardCacheKey(metric, window))
			}
		}
	}
}
