package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

type leaderboardRoundSource interface {
	ListAllRounds(ctx context.Context) ([]domain.Round, error)
}

type leaderboardPracticeSource interface {
	ListAllPractice(ctx context.Context) ([]domain.PracticeEntry, error)
}

type leaderboardMemberSource interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

type leaderboardRankStore interface {
	LastRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow) (map[string]int, error)
	SaveRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow, ranks map[string]int) error
}

type GetLeaderboard = func(
	ctx context.Context,
	userID string,
	metric domain.Metric,
	window domain.TimeWindow,
) (*domain.Leaderboard, error)

// BuildGetLeaderboard ranks every user with records in the record store.
// Round visibility is global: all members compete on all boards.
//
// Rank deltas are best-effort. The previous ranking is read from the rank
// store and the new one written back; failures on either side degrade to a
// board without deltas instead of failing the request.
func BuildGetLeaderboard(
	rounds leaderboardRoundSource,
	practice leaderboardPracticeSource,
	members leaderboardMemberSource,
	ranks leaderboardRankStore,
	nowFunc func() time.Time,
) GetLeaderboard {
	return func(ctx context.Context, userID string, metric domain.Metric, window domain.TimeWindow) (*domain.Leaderboard, error) {
		logger := logging.FromContext(ctx)

		if userID != "" && !strutils.UserIDIsNormalized(userID) {
			err := fmt.Errorf("user ID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
				"metric": string(metric),
				"window": string(window),
			})
			return nil, err
		}

		allRounds, err := rounds.ListAllRounds(ctx)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}
		allPractice, err := practice.ListAllPractice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list practice entries: %w", err)
		}

		now := nowFunc()
		board := ComputeLeaderboard(metric, window, allRounds, allPractice, now)

		memberList, err := members.ListMembers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}
		attachMemberDisplay(board, memberList)

		previousRanks, err := ranks.LastRanks(ctx, metric, window)
		if err != nil {
			// NOTE: Rank store implementations handle their own error reporting
			logger.Error("failed to load previous ranking", "error", err.Error())

			// NOTE: We continue without deltas. The board itself does not depend on them
			previousRanks = nil
		}
		attachRankDeltas(board, previousRanks)

		currentRanks := make(map[string]int, len(board.Entries))
		for _, entry := range board.Entries {
			currentRanks[entry.UserID] = entry.Rank
		}
		err = ranks.SaveRanks(ctx, metric, window, currentRanks)
		if err != nil {
			logger.Error("failed to save current ranking", "error", err.Error())
		}

		if userID != "" {
			for _, entry := range board.Entries {
				if entry.UserID == userID {
					board.UserRank = entry.Rank
					board.UserValue = entry.Value
					break
				}
			}
		}

		return board, nil
	}
}

// ComputeLeaderboard groups the records per user, computes the metric for each
// and ranks the qualified users. Users with no defined value are absent from
// the result entirely. Empty inputs produce an empty board, never synthetic
// entries.
func ComputeLeaderboard(
	metric domain.Metric,
	window domain.TimeWindow,
	allRounds []domain.Round,
	allPractice []domain.PracticeEntry,
	now time.Time,
) *domain.Leaderboard {
	roundsByUser := map[string][]domain.Round{}
	practiceByUser := map[string][]domain.PracticeEntry{}
	for _, round := range allRounds {
		roundsByUser[round.UserID] = append(roundsByUser[round.UserID], round)
	}
	for _, entry := range allPractice {
		practiceByUser[entry.UserID] = append(practiceByUser[entry.UserID], entry)
	}

	userIDs := make([]string, 0, len(roundsByUser)+len(practiceByUser))
	for id := range roundsByUser {
		userIDs = append(userIDs, id)
	}
	for id := range practiceByUser {
		if _, hasRounds := roundsByUser[id]; !hasRounds {
			userIDs = append(userIDs, id)
		}
	}
	// Deterministic tie order regardless of map iteration
	slices.Sort(userIDs)

	entries := []domain.LeaderboardEntry{}
	for _, id := range userIDs {
		value, ok := MetricValue(metric, window, roundsByUser[id], practiceByUser[id], now)
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID: id,
			Value:  value,
		})
	}

	slices.SortStableFunc(entries, func(a, b domain.LeaderboardEntry) int {
		if a.Value == b.Value {
			return 0
		}
		less := a.Value < b.Value
		if metric.SortsAscending() == less {
			return -1
		}
		return 1
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	board := &domain.Leaderboard{
		Metric:       metric,
		Window:       window,
		Top3:         entries[:min(3, len(entries))],
		Entries:      entries,
		UserRank:     0,
		UserValue:    0,
		TotalPlayers: len(entries),
	}
	return board
}

func attachMemberDisplay(board *domain.Leaderboard, members []domain.Member) {
	byID := make(map[string]domain.Member, len(members))
	for _, member := range members {
		byID[member.UserID] = member
	}
	for i := range board.Entries {
		member, found := byID[board.Entries[i].UserID]
		if !found {
			continue
		}
		board.Entries[i].DisplayName = member.DisplayName
		board.Entries[i].AvatarURL = member.AvatarURL
	}
}

func attachRankDeltas(board *domain.Leaderboard, previousRanks map[string]int) {
	if len(previousRanks) == 0 {
		return
	}
	for i := range board.Entries {
		previous, found := previousRanks[board.Entries[i].UserID]
		if !found {
			continue
		}
		delta := previous - board.Entries[i].Rank
		board.Entries[i].RankDelta = &delta
	}
}
