package practicerepository

import (
	"context"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type PracticeRepository interface {
	StorePracticeEntry(ctx context.Context, entry domain.PracticeEntry) error
	ListPracticeForUser(ctx context.Context, userID string) ([]domain.PracticeEntry, error)
	ListAllPractice(ctx context.Context) ([]domain.PracticeEntry, error)
}
