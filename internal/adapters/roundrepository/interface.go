package roundrepository

import (
	"context"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type RoundRepository interface {
	StoreRound(ctx context.Context, round domain.Round) error
	ListRoundsForUser(ctx context.Context, userID string) ([]domain.Round, error)
	ListAllRounds(ctx context.Context) ([]domain.Round, error)
}
