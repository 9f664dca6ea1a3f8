package domain

import "time"

type Member struct {
	UserID      string
	DisplayName string
	AvatarURL   string

	Handicap         *float64
	StartingHandicap float64

	CreatedAt time.Time
}
