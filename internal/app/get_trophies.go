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

type trophyRoundSource interface {
	ListRoundsForUser(ctx context.Context, userID string) ([]domain.Round, error)
}

type trophyLedgerSource interface {
	Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error)
	History(ctx context.Context, userID string) ([]domain.PracticeEntry, error)
}

type trophyMemberSource interface {
	GetMember(ctx context.Context, userID string) (*domain.Member, error)
}

type GetTrophies = func(ctx context.Context, userID string) ([]domain.TrophyStatus, error)

// BuildGetTrophies evaluates the whole catalog for one user. The member lookup
// only feeds the handicap trophies, so a missing member degrades those to
// locked instead of failing the request.
func BuildGetTrophies(
	rounds trophyRoundSource,
	ledger trophyLedgerSource,
	members trophyMemberSource,
	location *time.Location,
) GetTrophies {
	return func(ctx context.Context, userID string) ([]domain.TrophyStatus, error) {
		logger := logging.FromContext(ctx)

		if !strutils.UserIDIsNormalized(userID) {
			err := fmt.Errorf("user ID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
			})
			return nil, err
		}

		userRounds, err := rounds.ListRoundsForUser(ctx, userID)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}

		snapshot, err := ledger.Snapshot(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress snapshot: %w", err)
		}

		history, err := ledger.History(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load practice history: %w", err)
		}

		var handicap *float64
		member, err := members.GetMember(ctx, userID)
		if err != nil {
			if !errors.Is(err, domain.ErrMemberNotFound) {
				logger.Error("failed to get member for trophy evaluation", "error", err.Error())
			}
		} else {
			handicap = member.Handicap
		}

		return EvaluateTrophies(snapshot, userRounds, history, handicap, location), nil
	}
}
