package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/notify"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

type practiceWriter interface {
	StorePracticeEntry(ctx context.Context, entry domain.PracticeEntry) error
}

type practiceLedger interface {
	Snapshot(ctx context.Context, userID string) (domain.ProgressSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot domain.ProgressSnapshot) error
	AppendHistory(ctx context.Context, entry domain.PracticeEntry) error
}

type LogDrillCompletion = func(ctx context.Context, userID string, drillID string) (*domain.PracticeEntry, error)

type LogPracticeSession = func(ctx context.Context, userID string, title string, category string, minutes int) (*domain.PracticeEntry, error)

// logPractice is the shared write path: the record store is authoritative, the
// ledger follows. A ledger write that fails is logged and reported but does
// not undo the entry; the ledger catches up on the next completion.
func logPractice(
	ctx context.Context,
	practice practiceWriter,
	ledger practiceLedger,
	bus *notify.Bus,
	entry domain.PracticeEntry,
) (*domain.PracticeEntry, error) {
	logger := logging.FromContext(ctx)

	err := practice.StorePracticeEntry(ctx, entry)
	if err != nil {
		// NOTE: Repository implementations handle their own error reporting
		return nil, fmt.Errorf("failed to store practice entry: %w", err)
	}

	snapshot, err := ledger.Snapshot(ctx, entry.UserID)
	if err != nil {
		logger.Error("failed to load snapshot for merge", "error", err.Error())
		reporting.Report(ctx, err, map[string]string{
			"userId": entry.UserID,
		})
	} else {
		snapshot = snapshot.RecordCompletion(entry)
		err = ledger.SaveSnapshot(ctx, snapshot)
		if err != nil {
			logger.Error("failed to save merged snapshot", "error", err.Error())
			reporting.Report(ctx, err, map[string]string{
				"userId": entry.UserID,
			})
		}
	}

	err = ledger.AppendHistory(ctx, entry)
	if err != nil {
		logger.Error("failed to append practice history", "error", err.Error())
		reporting.Report(ctx, err, map[string]string{
			"userId": entry.UserID,
		})
	}

	bus.Publish(notify.TopicPracticeChanged)

	return &entry, nil
}

// BuildLogDrillCompletion awards a library drill: fixed duration and XP from
// the catalog. Completing the same drill again awards again; only the
// completed set stays distinct.
func BuildLogDrillCompletion(
	practice practiceWriter,
	ledger practiceLedger,
	bus *notify.Bus,
	newID func() string,
	nowFunc func() time.Time,
) LogDrillCompletion {
	return func(ctx context.Context, userID string, drillID string) (*domain.PracticeEntry, error) {
		normalized, err := strutils.NormalizeUserID(userID)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
			})
			return nil, err
		}

		drill, err := DrillByID(drillID)
		if err != nil {
			return nil, err
		}

		entry := domain.PracticeEntry{
			ID:       newID(),
			UserID:   normalized,
			LoggedAt: nowFunc(),
			Title:    drill.Title,
			DrillID:  drill.ID,
			Category: drill.Category,
			Minutes:  drill.Minutes,
			XP:       drill.XP(),
		}
		return logPractice(ctx, practice, ledger, bus, entry)
	}
}

// BuildLogPracticeSession records freestyle practice: no drill reference, XP
// scales with the logged duration.
func BuildLogPracticeSession(
	practice practiceWriter,
	ledger practiceLedger,
	bus *notify.Bus,
	newID func() string,
	nowFunc func() time.Time,
) LogPracticeSession {
	return func(ctx context.Context, userID string, title string, category string, minutes int) (*domain.PracticeEntry, error) {
		normalized, err := strutils.NormalizeUserID(userID)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"userId": userID,
			})
			return nil, err
		}

		if minutes <= 0 {
			return nil, fmt.Errorf("practice duration must be positive, got %d", minutes)
		}
		if title == "" {
			title = "Practice session"
		}

		entry := domain.PracticeEntry{
			ID:       newID(),
			UserID:   normalized,
			LoggedAt: nowFunc(),
			Title:    title,
			Category: category,
			Minutes:  minutes,
			XP:       minutes * domain.XPPerMinute,
		}
		return logPractice(ctx, practice, ledger, bus, entry)
	}
}
