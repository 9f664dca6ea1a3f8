package progressstore

import (
	"context"

	"github.com/fairwaylabs/teeline/internal/domain"
)

// ProgressStore is the per-user ledger: the accumulated snapshot, the practice
// history it was folded from and the last computed leaderboard rankings.
//
// NOTE: SaveSnapshot is last-write-wins. Concurrent merges of the same user's
// snapshot are not arbitrated; the history list is append-only and safe.
type ProgressStore interface {
	Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot domain.ProgressSnapshot) error

	AppendHistory(ctx context.Context, entry domain.PracticeEntry) error
	History(ctx context.Context, userID string) ([]domain.PracticeEntry, error)

	LastRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow) (map[string]int, error)
	SaveRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow, ranks map[string]int) error
}
