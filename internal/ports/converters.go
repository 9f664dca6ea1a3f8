package ports

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
)

type leaderboardEntryResponse struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   string  `json:"avatarUrl"`
	Value       float64 `json:"value"`
	Rank        int     `json:"rank"`
	RankDelta   *int    `json:"rankDelta,omitempty"`
}

type leaderboardResponse struct {
	Metric       string                     `json:"metric"`
	Window       string                     `json:"window"`
	Top3         []leaderboardEntryResponse `json:"top3"`
	All          []leaderboardEntryResponse `json:"all"`
	UserRank     int                        `json:"userRank"`
	UserValue    float64                    `json:"userValue"`
	TotalPlayers int                        `json:"totalPlayers"`
}

func leaderboardEntriesToResponse(entries []domain.LeaderboardEntry) []leaderboardEntryResponse {
	converted := make([]leaderboardEntryResponse, 0, len(entries))

	for _, entry := range entries {
		converted = append(converted, leaderboardEntryResponse{
			UserID:      entry.UserID,
			DisplayName: entry.DisplayName,
			AvatarURL:   entry.AvatarURL,
			Value:       entry.Value,
			Rank:        entry.Rank,
			RankDelta:   entry.RankDelta,
		})
	}

	return converted
}

func LeaderboardToResponseData(board *domain.Leaderboard) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("leaderboard is nil")
	}
	boardJSON, err := json.Marshal(leaderboardResponse{
		Metric:       string(board.Metric),
		Window:       string(board.Window),
		Top3:         leaderboardEntriesToResponse(board.Top3),
		All:          leaderboardEntriesToResponse(board.Entries),
		UserRank:     board.UserRank,
		UserValue:    board.UserValue,
		TotalPlayers: board.TotalPlayers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	return boardJSON, nil
}

type trophyProgressResponse struct {
	Current    float64 `json:"current"`
	Target     float64 `json:"target"`
	Percentage float64 `json:"percentage"`
}

type trophyStatusResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Requirement string                 `json:"requirement"`
	Category    string                 `json:"category"`
	Unlocked    bool                   `json:"unlocked"`
	Progress    trophyProgressResponse `json:"progress"`
}

func TrophiesToResponseData(trophies []domain.TrophyStatus) ([]byte, error) {
	converted := make([]trophyStatusResponse, 0, len(trophies))

	for _, trophy := range trophies {
		converted = append(converted, trophyStatusResponse{
			ID:          trophy.ID,
			Name:        trophy.Name,
			Requirement: trophy.Requirement,
			Category:    string(trophy.Category),
			Unlocked:    trophy.Unlocked,
			Progress: trophyProgressResponse{
				Current:    trophy.Progress.Current,
				Target:     trophy.Progress.Target,
				Percentage: trophy.Progress.Percentage,
			},
		})
	}

	trophiesJSON, err := json.Marshal(converted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trophies: %w", err)
	}
	return trophiesJSON, nil
}

type progressResponse struct {
	UserID string `json:"userId"`

	TotalXP         int     `json:"totalXp"`
	CompletedDrills int     `json:"completedDrills"`
	PracticeHours   float64 `json:"practiceHours"`
	RoundCount      int     `json:"roundCount"`

	Handicap       *float64 `json:"handicap"`
	Tier           string   `json:"tier"`
	Level          string   `json:"level"`
	ProgressToGoal float64  `json:"progressToGoal"`

	CurrentStreakDays int `json:"currentStreakDays"`
	LongestStreakDays int `json:"longestStreakDays"`
}

func ProgressToResponseData(report *domain.ProgressReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("progress report is nil")
	}
	reportJSON, err := json.Marshal(progressResponse{
		UserID:            report.UserID,
		TotalXP:           report.TotalXP,
		CompletedDrills:   report.CompletedDrills,
		PracticeHours:     report.PracticeHours,
		RoundCount:        report.RoundCount,
		Handicap:          report.Handicap,
		Tier:              report.Tier.String(),
		Level:             report.Tier.Label(),
		ProgressToGoal:    report.ProgressToGoal,
		CurrentStreakDays: report.CurrentStreakDays,
		LongestStreakDays: report.LongestStreakDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress report: %w", err)
	}
	return reportJSON, nil
}

type roundResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Course   string    `json:"course"`
	PlayedAt time.Time `json:"playedAt"`

	Holes int `json:"holes"`

	GrossScore *int     `json:"grossScore"`
	Handicap   *float64 `json:"handicap"`

	Putts              int `json:"putts"`
	FairwaysHit        int `json:"fairwaysHit"`
	FairwaysPossible   int `json:"fairwaysPossible"`
	GreensInRegulation int `json:"greensInRegulation"`
	UpAndDownsMade     int `json:"upAndDownsMade"`
	UpAndDownsMissed   int `json:"upAndDownsMissed"`

	Birdies int `json:"birdies"`
	Eagles  int `json:"eagles"`
	Pars    int `json:"pars"`
}

func RoundToResponseData(round *domain.Round) ([]byte, error) {
	if round == nil {
		return nil, fmt.Errorf("round is nil")
	}
	roundJSON, err := json.Marshal(roundResponse{
		ID:                 round.ID,
		UserID:             round.UserID,
		Course:             round.Course,
		PlayedAt:           round.PlayedAt,
		Holes:              round.Holes,
		GrossScore:         round.GrossScore,
		Handicap:           round.Handicap,
		Putts:              round.Putts,
		FairwaysHit:        round.FairwaysHit,
		FairwaysPossible:   round.FairwaysPossible,
		GreensInRegulation: round.GreensInRegulation,
		UpAndDownsMade:     round.UpAndDownsMade,
		UpAndDownsMissed:   round.UpAndDownsMissed,
		Birdies:            round.Birdies,
		Eagles:             round.Eagles,
		Pars:               round.Pars,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal round: %w", err)
	}
	return roundJSON, nil
}

type practiceEntryResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	LoggedAt time.Time `json:"loggedAt"`

	Title    string `json:"title"`
	DrillID  string `json:"drillId,omitempty"`
	Category string `json:"category,omitempty"`

	Minutes int `json:"minutes"`
	XP      int `json:"xp"`
}

func PracticeEntryToResponseData(entry *domain.PracticeEntry) ([]byte, error) {
	if entry == nil {
		return nil, fmt.Errorf("practice entry is nil")
	}
	entryJSON, err := json.Marshal(practiceEntryResponse{
		ID:       entry.ID,
		UserID:   entry.UserID,
		LoggedAt: entry.LoggedAt,
		Title:    entry.Title,
		DrillID:  entry.DrillID,
		Category: entry.Category,
		Minutes:  entry.Minutes,
		XP:       entry.XP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal practice entry: %w", err)
	}
	return entryJSON, nil
}

type planItemResponse struct {
	DrillID  string `json:"drillId"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Facility string `json:"facility"`
	Minutes  int    `json:"minutes"`
	XP       int    `json:"xp"`
	Reason   string `json:"reason"`
}

type practicePlanResponse struct {
	UserID        string             `json:"userId"`
	FocusCategory string             `json:"focusCategory"`
	Items         []planItemResponse `json:"items"`
	TotalMinutes  int                `json:"totalMinutes"`
	TotalXP       int                `json:"totalXp"`
}

func PracticePlanToResponseData(plan *domain.PracticePlan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("practice plan is nil")
	}

	items := make([]planItemResponse, 0, len(plan.Items))
	for _, item := range plan.Items {
		items = append(items, planItemResponse{
			DrillID:  item.Drill.ID,
			Title:    item.Drill.Title,
			Category: item.Drill.Category,
			Facility: string(item.Drill.Facility),
			Minutes:  item.Drill.Minutes,
			XP:       item.Drill.XP(),
			Reason:   item.Reason,
		})
	}

	planJSON, err := json.Marshal(practicePlanResponse{
		UserID:        plan.UserID,
		FocusCategory: plan.FocusCategory,
		Items:         items,
		TotalMinutes:  plan.TotalMinutes,
		TotalXP:       plan.TotalXP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal practice plan: %w", err)
	}
	return planJSON, nil
}
