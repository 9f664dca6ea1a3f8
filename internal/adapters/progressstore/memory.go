package progressstore

import (
	"context"
	"sync"

	"github.com/fairwaylabs/teeline/internal/domain"
)

// Memory is an in-memory ledger for development and tests. Snapshots and rank
// tables are copied on the way in and out so callers never share map state
// with the store.
type Memory struct {
	mu sync.RWMutex

	snapshots map[string]domain.ProgressSnapshot
	history   map[string][]domain.PracticeEntry
	ranks     map[rankKey]map[string]int
}

type rankKey struct {
	metric domain.Metric
	window domain.TimeWindow
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]domain.ProgressSnapshot),
		history:   make(map[string][]domain.PracticeEntry),
		ranks:     make(map[rankKey]map[string]int),
	}
}

var _ ProgressStore = (*Memory)(nil)

func (m *Memory) Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[userID]
	if !ok {
		return domain.NewProgressSnapshot(userID), nil
	}
	return copySnapshot(snapshot), nil
}

func (m *Memory) SaveSnapshot(ctx context.Context, snapshot domain.ProgressSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[snapshot.UserID] = copySnapshot(snapshot)
	return nil
}

func (m *Memory) AppendHistory(ctx context.Context, entry domain.PracticeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history[entry.UserID] = append(m.history[entry.UserID], entry)
	return nil
}

func (m *Memory) History(ctx context.Context, userID string) ([]domain.PracticeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]domain.PracticeEntry, len(m.history[userID]))
	copy(entries, m.history[userID])
	return entries, nil
}

func (m *Memory) LastRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ranks := map[string]int{}
	for userID, rank := range m.ranks[rankKey{metric: metric, window: window}] {
		ranks[userID] = rank
	}
	return ranks, nil
}

func (m *Memory) SaveRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow, ranks map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := map[string]int{}
	for userID, rank := range ranks {
		stored[userID] = rank
	}
	m.ranks[rankKey{metric: metric, window: window}] = stored
	return nil
}

func copySnapshot(snapshot domain.ProgressSnapshot) domain.ProgressSnapshot {
	copied := domain.NewProgressSnapshot(snapshot.UserID)
	copied.TotalXP = snapshot.TotalXP

	for drillID := range snapshot.CompletedDrillIDs {
		copied.CompletedDrillIDs[drillID] = true
	}
	for drillID, count := range snapshot.CompletionCounts {
		copied.CompletionCounts[drillID] = count
	}
	for category, minutes := range snapshot.CategoryMinutes {
		copied.CategoryMinutes[category] = minutes
	}

	return copied
}
