package domaintest

import (
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type memberBuilder struct {
	member *domain.Member
}

func NewMemberBuilder(userID string) *memberBuilder {
	member := &domain.Member{
		UserID:           userID,
		DisplayName:      "Member " + userID[:8],
		StartingHandicap: domain.StartingHandicap,
		CreatedAt:        time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	return &memberBuilder{
		member: member,
	}
}

func (mb *memberBuilder) WithDisplayName(name string) *memberBuilder {
	mb.member.DisplayName = name
	return mb
}

func (mb *memberBuilder) WithAvatarURL(url string) *memberBuilder {
	mb.member.AvatarURL = url
	return mb
}

func (mb *memberBuilder) WithHandicap(handicap float64) *memberBuilder {
	mb.member.Handicap = &handicap
	return mb
}

func (mb *memberBuilder) Build() domain.Member {
	return *mb.member
}
