package progressstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairwaylabs/teeline/internal/config"
	"github.com/fairwaylabs/teeline/internal/domain"
)

const pingTimeout = 5 * time.Second

// Redis keeps the ledger in Redis. Snapshots and rank tables are stored as
// plain JSON values, history as a list appended to on every logged entry.
// Nothing here expires; the ledger is the authority for per-user progress.
type Redis struct {
	client *redis.Client
}

var _ ProgressStore = (*Redis)(nil)

func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// NewRedisWithClient wraps an already constructed client. Used by tests.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func NewRedisOrMemory(conf config.Config) (ProgressStore, error) {
	if conf.RedisURL() != "" {
		return NewRedis(conf.RedisURL())
	}
	if conf.IsDevelopment() {
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("Missing redis URL in non-development environment")
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type snapshotStorage struct {
	UserID           string         `json:"userId"`
	TotalXP          int            `json:"totalXp"`
	CompletionCounts map[string]int `json:"completionCounts,omitempty"`
	CategoryMinutes  map[string]int `json:"categoryMinutes,omitempty"`
}

type entryStorage struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	LoggedAt time.Time `json:"loggedAt"`
	Title    string    `json:"title,omitempty"`
	DrillID  string    `json:"drillId,omitempty"`
	Category string    `json:"category,omitempty"`
	Minutes  int       `json:"minutes,omitempty"`
	XP       int       `json:"xp,omitempty"`
}

func (r *Redis) Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err == redis.Nil {
		// No ledger yet is a valid state, not an error.
		return domain.NewProgressSnapshot(userID), nil
	}
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var stored snapshotStorage
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return snapshotFromStorage(stored), nil
}

func (r *Redis) SaveSnapshot(ctx context.Context, snapshot domain.ProgressSnapshot) error {
	data, err := json.Marshal(snapshotToStorage(snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(snapshot.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}

func (r *Redis) AppendHistory(ctx context.Context, entry domain.PracticeEntry) error {
	data, err := json.Marshal(entryToStorage(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	if err := r.client.RPush(ctx, historyKey(entry.UserID), data).Err(); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

func (r *Redis) History(ctx context.Context, userID string) ([]domain.PracticeEntry, error) {
	items, err := r.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entries := make([]domain.PracticeEntry, 0, len(items))
	for _, item := range items {
		var stored entryStorage
		if err := json.Unmarshal([]byte(item), &stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
		}
		entries = append(entries, entryFromStorage(stored))
	}

	return entries, nil
}

func (r *Redis) LastRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow) (map[string]int, error) {
	data, err := r.client.Get(ctx, ranksKey(metric, window)).Bytes()
	if err == redis.Nil {
		// The board has simply never been ranked before.
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ranks: %w", err)
	}

	ranks := map[string]int{}
	if err := json.Unmarshal(data, &ranks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranks: %w", err)
	}

	return ranks, nil
}

func (r *Redis) SaveRanks(ctx context.Context, metric domain.Metric, window domain.TimeWindow, ranks map[string]int) error {
	if ranks == nil {
		ranks = map[string]int{}
	}

	data, err := json.Marshal(ranks)
	if err != nil {
		return fmt.Errorf("failed to marshal ranks: %w", err)
	}

	if err := r.client.Set(ctx, ranksKey(metric, window), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store ranks: %w", err)
	}

	return nil
}

func snapshotToStorage(snapshot domain.ProgressSnapshot) snapshotStorage {
	return snapshotStorage{
		UserID:           snapshot.UserID,
		TotalXP:          snapshot.TotalXP,
		CompletionCounts: snapshot.CompletionCounts,
		CategoryMinutes:  snapshot.CategoryMinutes,
	}
}

func snapshotFromStorage(stored snapshotStorage) domain.ProgressSnapshot {
	snapshot := domain.NewProgressSnapshot(stored.UserID)
	snapshot.TotalXP = stored.TotalXP

	// The completed set is exactly the drills counted at least once, so it is
	// not stored separately.
	for drillID, count := range stored.CompletionCounts {
		snapshot.CompletedDrillIDs[drillID] = true
		snapshot.CompletionCounts[drillID] = count
	}
	for category, minutes := range stored.CategoryMinutes {
		snapshot.CategoryMinutes[category] = minutes
	}

	return snapshot
}

func entryToStorage(entry domain.PracticeEntry) entryStorage {
	return entryStorage{
		ID:       entry.ID,
		UserID:   entry.UserID,
		LoggedAt: entry.LoggedAt,
		Title:    entry.Title,
		DrillID:  entry.DrillID,
		Category: entry.Category,
		Minutes:  entry.Minutes,
		XP:       entry.XP,
	}
}

func entryFromStorage(stored entryStorage) domain.PracticeEntry {
	return domain.PracticeEntry{
		ID:       stored.ID,
		UserID:   stored.UserID,
		LoggedAt: stored.LoggedAt,
		Title:    stored.Title,
		DrillID:  stored.DrillID,
		Category: stored.Category,
		Minutes:  stored.Minutes,
		XP:       stored.XP,
	}
}
