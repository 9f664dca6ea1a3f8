package domain

type LeaderboardEntry struct {
	UserID      string
	DisplayName string
	AvatarURL   string

	Value float64
	Rank  int

	// RankDelta is previous rank minus current rank. Nil when no previous
	// ranking is known for this user.
	RankDelta *int
}

// Leaderboard holds one ranked standing for a metric and window. Users with
// no defined value for the metric are absent, never ranked last.
type Leaderboard struct {
	Metric Metric
	Window TimeWindow

	Top3    []LeaderboardEntry
	Entries []LeaderboardEntry

	// UserRank is 0 when the requesting user does not qualify.
	UserRank  int
	UserValue float64

	TotalPlayers int
}
