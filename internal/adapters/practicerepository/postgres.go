package practicerepository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const DATA_FORMAT_VERSION = 1

const listBatchSize = 500

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("teeline/practicerepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type practiceDataStorage struct {
	Title    string `json:"t,omitempty"`
	DrillID  string `json:"d,omitempty"`
	Category string `json:"c,omitempty"`
	Minutes  int    `json:"m,omitempty"`
	XP       int    `json:"x,omitempty"`
}

type dbPracticeEntry struct {
	ID                string    `db:"id"`
	DataFormatVersion int       `db:"data_format_version"`
	UserID            string    `db:"user_id"`
	LoggedAt          time.Time `db:"logged_at"`
	EntryData         []byte    `db:"entry_data"`
}

func entryToDataStorage(entry domain.PracticeEntry) ([]byte, error) {
	data := practiceDataStorage{
		Title:    entry.Title,
		DrillID:  entry.DrillID,
		Category: entry.Category,
		Minutes:  entry.Minutes,
		XP:       entry.XP,
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal practice data: %w", err)
	}
	return raw, nil
}

func dbEntryToEntry(row dbPracticeEntry) (domain.PracticeEntry, error) {
	var data practiceDataStorage
	err := json.Unmarshal(row.EntryData, &data)
	if err != nil {
		return domain.PracticeEntry{}, fmt.Errorf("failed to unmarshal practice data: %w", err)
	}

	return domain.PracticeEntry{
		ID:       row.ID,
		UserID:   row.UserID,
		LoggedAt: row.LoggedAt,
		Title:    data.Title,
		DrillID:  data.DrillID,
		Category: data.Category,
		Minutes:  data.Minutes,
		XP:       data.XP,
	}, nil
}

func (p *Postgres) StorePracticeEntry(ctx context.Context, entry domain.PracticeEntry) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StorePracticeEntry")
	defer span.End()

	if entry.ID == "" {
		err := fmt.Errorf("practice entry ID is empty")
		reporting.Report(ctx, err, map[string]string{
			"userId": entry.UserID,
		})
		return err
	}
	if !strutils.UserIDIsNormalized(entry.UserID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId":  entry.UserID,
			"entryId": entry.ID,
		})
		return err
	}

	entryData, err := entryToDataStorage(entry)
	if err != nil {
		err := fmt.Errorf("failed to convert practice entry to data storage: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId":  entry.UserID,
			"entryId": entry.ID,
		})
		return err
	}

	_, err = p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.practice_entries
		(id, user_id, logged_at, data_format_version, entry_data)
		VALUES ($1, $2, $3, $4, $5)`,
			pq.QuoteIdentifier(p.schema)),
		entry.ID,
		entry.UserID,
		entry.LoggedAt,
		DATA_FORMAT_VERSION,
		entryData,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert practice entry: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId":  entry.UserID,
			"entryId": entry.ID,
		})
		return err
	}

	return nil
}

func (p *Postgres) ListPracticeForUser(ctx context.Context, userID string) ([]domain.PracticeEntry, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListPracticeForUser")
	defer span.End()

	if !strutils.UserIDIsNormalized(userID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return nil, err
	}

	rows := []dbPracticeEntry{}
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT
			id, data_format_version, user_id, logged_at, entry_data
		FROM %s.practice_entries
		WHERE user_id = $1
		ORDER BY logged_at ASC, id ASC`,
			pq.QuoteIdentifier(p.schema)),
		userID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select practice entries for user: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return nil, err
	}

	return p.convertRows(ctx, rows)
}

func (p *Postgres) ListAllPractice(ctx context.Context) ([]domain.PracticeEntry, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListAllPractice")
	defer span.End()

	rows := []dbPracticeEntry{}
	lastID := "" // Initial cursor sorts before every id
	for {
		batch := make([]dbPracticeEntry, 0, listBatchSize)
		err := p.db.SelectContext(
			ctx,
			&batch,
			fmt.Sprintf(`SELECT
				id, data_format_version, user_id, logged_at, entry_data
			FROM %s.practice_entries
			WHERE id > $1
			ORDER BY id ASC
			LIMIT $2`,
				pq.QuoteIdentifier(p.schema)),
			lastID,
			listBatchSize,
		)
		if err != nil {
			err := fmt.Errorf("failed to select batch of practice entries: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"lastId": lastID,
			})
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		rows = append(rows, batch...)
		lastID = batch[len(batch)-1].ID
	}

	return p.convertRows(ctx, rows)
}

func (p *Postgres) convertRows(ctx context.Context, rows []dbPracticeEntry) ([]domain.PracticeEntry, error) {
	entries := make([]domain.PracticeEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := dbEntryToEntry(row)
		if err != nil {
			err := fmt.Errorf("failed to convert db practice entry: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"entryId": row.ID,
			})
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) StorePracticeEntry(ctx context.Context, entry domain.PracticeEntry) error {
	return nil
}

func (s *Stub) ListPracticeForUser(ctx context.Context, userID string) ([]domain.PracticeEntry, error) {
	return []domain.PracticeEntry{}, nil
}

func (s *Stub) ListAllPractice(ctx context.Context) ([]domain.PracticeEntry, error) {
	return []domain.PracticeEntry{}, nil
}
