package domaintest

import (
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type practiceBuilder struct {
	entry *domain.PracticeEntry
}

func NewPracticeBuilder(userID string, loggedAt time.Time) *practiceBuilder {
	entry := &domain.PracticeEntry{
		ID:       "practice-" + loggedAt.UTC().Format(time.RFC3339Nano),
		UserID:   userID,
		LoggedAt: loggedAt,
		Title:    "Range session",
		Minutes:  30,
		XP:       30 * domain.XPPerMinute,
	}
	return &practiceBuilder{
		entry: entry,
	}
}

func (pb *practiceBuilder) WithID(id string) *practiceBuilder {
	pb.entry.ID = id
	return pb
}

func (pb *practiceBuilder) WithTitle(title string) *practiceBuilder {
	pb.entry.Title = title
	return pb
}

func (pb *practiceBuilder) WithDrillID(drillID string) *practiceBuilder {
	pb.entry.DrillID = drillID
	return pb
}

func (pb *practiceBuilder) WithCategory(category string) *practiceBuilder {
	pb.entry.Category = category
	return pb
}

func (pb *practiceBuilder) WithMinutes(minutes int) *practiceBuilder {
	pb.entry.Minutes = minutes
	pb.entry.XP = minutes * domain.XPPerMinute
	return pb
}

// WithXP sets the award without touching the duration. Use after WithMinutes
// when the two should disagree.
func (pb *practiceBuilder) WithXP(xp int) *practiceBuilder {
	pb.entry.XP = xp
	return pb
}

func (pb *practiceBuilder) Build() domain.PracticeEntry {
	return *pb.entry
}
