package app

import (
	"fmt"

	"github.com/fairwaylabs/teeline/internal/domain"
)

// drillCatalog is the academy library. IDs are stable: the progress ledger
// references them forever, so entries may be added but never renamed.
var drillCatalog = []domain.Drill{
	{ID: "gate-putting", Title: "Gate putting", Category: "putting", Facility: domain.FacilityGreen, Minutes: 20},
	{ID: "circle-drill", Title: "3-6-9 circle drill", Category: "putting", Facility: domain.FacilityGreen, Minutes: 25},
	{ID: "lag-ladder", Title: "Lag putting ladder", Category: "putting", Facility: domain.FacilityGreen, Minutes: 20},
	{ID: "carpet-roll", Title: "Carpet roll control", Category: "putting", Facility: domain.FacilityHome, Minutes: 15},

	{ID: "clock-chipping", Title: "Clock chipping", Category: "chipping", Facility: domain.FacilityGreen, Minutes: 25},
	{ID: "landing-towel", Title: "Landing zone towel", Category: "chipping", Facility: domain.FacilityGreen, Minutes: 20},
	{ID: "bunker-splash", Title: "Bunker splash reps", Category: "chipping", Facility: domain.FacilityGreen, Minutes: 20},

	{ID: "fairway-finder", Title: "Fairway finder", Category: "driving", Facility: domain.FacilityRange, Minutes: 30},
	{ID: "tee-gate", Title: "Tee gate alignment", Category: "driving", Facility: domain.FacilityRange, Minutes: 20},
	{ID: "tempo-count", Title: "Tempo counting", Category: "driving", Facility: domain.FacilityRange, Minutes: 15},

	{ID: "nine-shot", Title: "Nine shot matrix", Category: "irons", Facility: domain.FacilityRange, Minutes: 35},
	{ID: "distance-wedge", Title: "Wedge distance steps", Category: "irons", Facility: domain.FacilityRange, Minutes: 25},
	{ID: "punch-window", Title: "Punch shot window", Category: "irons", Facility: domain.FacilityRange, Minutes: 20},

	{ID: "par-18", Title: "Par 18 short game loop", Category: "scoring", Facility: domain.FacilityCourse, Minutes: 45},
	{ID: "worst-ball", Title: "Worst ball nine holes", Category: "scoring", Facility: domain.FacilityCourse, Minutes: 60},
	{ID: "mirror-posture", Title: "Mirror posture check", Category: "fundamentals", Facility: domain.FacilityHome, Minutes: 10},
	{ID: "grip-reps", Title: "Grip repetitions", Category: "fundamentals", Facility: domain.FacilityHome, Minutes: 10},
}

// Drills returns the full library in presentation order.
func Drills() []domain.Drill {
	drills := make([]domain.Drill, len(drillCatalog))
	copy(drills, drillCatalog)
	return drills
}

func DrillByID(id string) (domain.Drill, error) {
	for _, drill := range drillCatalog {
		if drill.ID == id {
			return drill, nil
		}
	}
	return domain.Drill{}, fmt.Errorf("%w: %q", domain.ErrDrillNotFound, id)
}
