package domain

// ProgressSnapshot is the per-user ledger state accumulated from practice
// completions. It only ever grows; aggregate views are derived from it and
// from the record store, never written back.
type ProgressSnapshot struct {
	UserID string

	TotalXP           int
	CompletedDrillIDs map[string]bool
	CompletionCounts  map[string]int
	CategoryMinutes   map[string]int
}

func NewProgressSnapshot(userID string) ProgressSnapshot {
	return ProgressSnapshot{
		UserID:            userID,
		TotalXP:           0,
		CompletedDrillIDs: map[string]bool{},
		CompletionCounts:  map[string]int{},
		CategoryMinutes:   map[string]int{},
	}
}

// RecordCompletion folds one practice entry into the snapshot.
func (s ProgressSnapshot) RecordCompletion(entry PracticeEntry) ProgressSnapshot {
	if s.CompletedDrillIDs == nil {
		s.CompletedDrillIDs = map[string]bool{}
	}
	if s.CompletionCounts == nil {
		s.CompletionCounts = map[string]int{}
	}
	if s.CategoryMinutes == nil {
		s.CategoryMinutes = map[string]int{}
	}

	s.TotalXP += entry.XP
	if entry.DrillID != "" {
		s.CompletedDrillIDs[entry.DrillID] = true
		s.CompletionCounts[entry.DrillID]++
	}
	if entry.Category != "" {
		s.CategoryMinutes[entry.Category] += entry.DurationMinutes()
	}

	return s
}

func (s ProgressSnapshot) CompletedCount() int {
	return len(s.CompletedDrillIDs)
}

// ProgressReport is the flattened per-user overview served to the client.
type ProgressReport struct {
	UserID string

	TotalXP         int
	CompletedDrills int
	PracticeHours   float64
	RoundCount      int

	Handicap       *float64
	Tier           Tier
	ProgressToGoal float64

	CurrentStreakDays int
	LongestStreakDays int
}
