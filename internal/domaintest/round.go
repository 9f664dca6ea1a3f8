package domaintest

import (
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type roundBuilder struct {
	round *domain.Round
}

func NewRoundBuilder(userID string, playedAt time.Time) *roundBuilder {
	round := &domain.Round{
		ID:       "round-" + playedAt.UTC().Format(time.RFC3339Nano),
		UserID:   userID,
		Course:   "Sunnfjord Links",
		PlayedAt: playedAt,
		Holes:    18,
	}
	return &roundBuilder{
		round: round,
	}
}

func (rb *roundBuilder) WithID(id string) *roundBuilder {
	rb.round.ID = id
	return rb
}

func (rb *roundBuilder) WithCourse(course string) *roundBuilder {
	rb.round.Course = course
	return rb
}

func (rb *roundBuilder) WithHoles(holes int) *roundBuilder {
	rb.round.Holes = holes
	return rb
}

func (rb *roundBuilder) WithGross(gross int) *roundBuilder {
	rb.round.GrossScore = &gross
	return rb
}

func (rb *roundBuilder) WithHandicap(handicap float64) *roundBuilder {
	rb.round.Handicap = &handicap
	return rb
}

func (rb *roundBuilder) WithPutts(putts int) *roundBuilder {
	rb.round.Putts = putts
	return rb
}

func (rb *roundBuilder) WithFairways(hit, possible int) *roundBuilder {
	rb.round.FairwaysHit = hit
	rb.round.FairwaysPossible = possible
	return rb
}

func (rb *roundBuilder) WithGreensInRegulation(greens int) *roundBuilder {
	rb.round.GreensInRegulation = greens
	return rb
}

func (rb *roundBuilder) WithUpAndDowns(made, missed int) *roundBuilder {
	rb.round.UpAndDownsMade = made
	rb.round.UpAndDownsMissed = missed
	return rb
}

func (rb *roundBuilder) WithBirdies(birdies int) *roundBuilder {
	rb.round.Birdies = birdies
	return rb
}

func (rb *roundBuilder) WithEagles(eagles int) *roundBuilder {
	rb.round.Eagles = eagles
	return rb
}

func (rb *roundBuilder) WithPars(pars int) *roundBuilder {
	rb.round.Pars = pars
	return rb
}

func (rb *roundBuilder) Build() domain.Round {
	return *rb.round
}
