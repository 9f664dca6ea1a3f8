package domain

// TrophyCategory groups trophies in the cabinet view
type TrophyCategory string

const (
	TrophyCategoryPractice          TrophyCategory = "practice"
	TrophyCategoryKnowledge         TrophyCategory = "knowledge"
	TrophyCategoryPerformance       TrophyCategory = "performance"
	TrophyCategoryMilestone         TrophyCategory = "milestone"
	TrophyCategoryScoringMilestones TrophyCategory = "scoringMilestones"
)

type TrophyProgress struct {
	Current float64
	Target  float64
	// Percentage is always within [0, 100], whichever direction the
	// underlying threshold runs.
	Percentage float64
}

type TrophyStatus struct {
	ID          string
	Name        string
	Requirement string
	Category    TrophyCategory

	Unlocked bool
	Progress TrophyProgress
}
