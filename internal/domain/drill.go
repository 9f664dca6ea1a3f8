package domain

import "fmt"

// Facility names where a drill can be performed
type Facility string

const (
	FacilityAny    Facility = ""
	FacilityRange  Facility = "range"
	FacilityGreen  Facility = "green"
	FacilityCourse Facility = "course"
	FacilityHome   Facility = "home"
)

func FacilityFromString(raw string) (Facility, error) {
	switch Facility(raw) {
	case FacilityAny, FacilityRange, FacilityGreen, FacilityCourse, FacilityHome:
		return Facility(raw), nil
	default:
		return "", fmt.Errorf("unknown facility: %q", raw)
	}
}

type Drill struct {
	ID       string
	Title    string
	Category string
	Facility Facility
	Minutes  int
}

func (d Drill) XP() int {
	return d.Minutes * XPPerMinute
}

type PlanItem struct {
	Drill  Drill
	Reason string
}

// PracticePlan is a suggested schedule filling a member's available time.
type PracticePlan struct {
	UserID        string
	FocusCategory string
	Items         []PlanItem
	TotalMinutes  int
	TotalXP       int
}
