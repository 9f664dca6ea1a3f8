package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

type GetProgress = func(ctx context.Context, userID string) (*domain.ProgressReport, error)

// BuildGetProgress assembles the member overview: ledger totals, tier placement
// and practice streaks.
func BuildGetProgress(
	rounds trophyRoundSource,
	ledger trophyLedgerSource,
	members trophyMemberSource,
	location *time.Location,
	nowFunc func() time.Time,
) GetProgress {
	return func(ctx context.Context, userID string) (*domain.ProgressReport, error) {
		logger := logging.FromContext(ctx)

		if !strutils.UserIDIsNormalized(userID) {
			err := fmt.Errorf("user ID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
			})
			return nil, err
		}

		snapshot, err := ledger.Snapshot(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress snapshot: %w", err)
		}

		history, err := ledger.History(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load practice history: %w", err)
		}

		userRounds, err := rounds.ListRoundsForUser(ctx, userID)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}

		var handicap *float64
		member, err := members.GetMember(ctx, userID)
		if err != nil {
			if !errors.Is(err, domain.ErrMemberNotFound) {
				logger.Error("failed to get member for progress report", "error", err.Error())
			}
		} else {
			handicap = member.Handicap
		}

		times := make([]time.Time, 0, len(history))
		for _, entry := range history {
			times = append(times, entry.LoggedAt)
		}

		now := nowFunc()
		report := &domain.ProgressReport{
			UserID:            userID,
			TotalXP:           snapshot.TotalXP,
			CompletedDrills:   snapshot.CompletedCount(),
			PracticeHours:     ComputePracticeHours(history),
			RoundCount:        len(userRounds),
			Handicap:          handicap,
			Tier:              domain.TierFor(handicap, snapshot.TotalXP),
			ProgressToGoal:    domain.ProgressToGoal(handicap),
			CurrentStreakDays: domain.CurrentStreak(times, now, location),
			LongestStreakDays: domain.LongestStreak(times, location),
		}
		return report, nil
	}
}
