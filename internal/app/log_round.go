package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/notify"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

type roundWriter interface {
	StoreRound(ctx context.Context, round domain.Round) error
}

type memberHandicapWriter interface {
	UpdateHandicap(ctx context.Context, userID string, handicap float64) error
}

type LogRound = func(ctx context.Context, round domain.Round) (*domain.Round, error)

// BuildLogRound validates and stores a round, carries a supplied handicap over
// to the member record and signals the change.
func BuildLogRound(
	rounds roundWriter,
	members memberHandicapWriter,
	bus *notify.Bus,
	newID func() string,
	nowFunc func() time.Time,
) LogRound {
	return func(ctx context.Context, round domain.Round) (*domain.Round, error) {
		logger := logging.FromContext(ctx)

		normalized, err := strutils.NormalizeUserID(round.UserID)
		if err != nil {
			reportErr := fmt.Errorf("%w: %w", domain.ErrInvalidRound, err)
			reporting.Report(ctx, reportErr, map[string]string{
				"userId": round.UserID,
			})
			return nil, reportErr
		}
		round.UserID = normalized

		if round.Holes != 9 && round.Holes != 18 {
			return nil, fmt.Errorf("%w: holes must be 9 or 18, got %d", domain.ErrInvalidRound, round.Holes)
		}
		if round.GrossScore != nil && *round.GrossScore <= 0 {
			return nil, fmt.Errorf("%w: gross score must be positive", domain.ErrInvalidRound)
		}

		if round.ID == "" {
			round.ID = newID()
		}
		if round.PlayedAt.IsZero() {
			round.PlayedAt = nowFunc()
		}

		err = rounds.StoreRound(ctx, round)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to store round: %w", err)
		}

		if round.Handicap != nil {
			// Keep the member record current so tier placement follows the
			// latest round. Losing this update does not lose the round.
			err = members.UpdateHandicap(ctx, round.UserID, *round.Handicap)
			if err != nil {
				logger.Error("failed to update member handicap", "error", err.Error())
			}
		}

		bus.Publish(notify.TopicRoundsChanged)

		return &round, nil
	}
}
