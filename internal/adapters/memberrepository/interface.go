package memberrepository

import (
	"context"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type MemberRepository interface {
	UpsertMember(ctx context.Context, member domain.Member) (domain.Member, error)
	GetMember(ctx context.Context, userID string) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	UpdateHandicap(ctx context.Context, userID string, handicap float64) error
}
