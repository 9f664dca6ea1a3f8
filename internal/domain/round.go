package domain

import (
	"time"
)

type Round struct {
	ID       string
	UserID   string
	Course   string
	PlayedAt time.Time

	Holes int

	GrossScore *int
	Handicap   *float64

	Putts              int
	FairwaysHit        int
	FairwaysPossible   int
	GreensInRegulation int
	UpAndDownsMade     int
	UpAndDownsMissed   int

	Birdies int
	Eagles  int
	Pars    int
}

// NettScore is gross score adjusted for the handicap carried at the time of
// the round. Undefined unless both are recorded.
func (r Round) NettScore() (float64, bool) {
	if r.GrossScore == nil || r.Handicap == nil {
		return 0, false
	}
	return float64(*r.GrossScore) - *r.Handicap, true
}

func (r Round) IsFullRound() bool {
	return r.Holes == 18
}
