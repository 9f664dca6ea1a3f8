package roundrepository

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
	tracer := otel.Tracer("teeline/roundrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

// roundDataStorage is the jsonb payload. Keys are short and omitted when empty
// to keep rows compact; the row columns carry everything queries filter on.
type roundDataStorage struct {
	Course             string   `json:"c,omitempty"`
	Holes              int      `json:"h,omitempty"`
	GrossScore         *int     `json:"g,omitempty"`
	Handicap           *float64 `json:"hc,omitempty"`
	Putts              int      `json:"p,omitempty"`
	FairwaysHit        int      `json:"fh,omitempty"`
	FairwaysPossible   int      `json:"fp,omitempty"`
	GreensInRegulation int      `json:"gir,omitempty"`
	UpAndDownsMade     int      `json:"udm,omitempty"`
	UpAndDownsMissed   int      `json:"udx,omitempty"`
	Birdies            int      `json:"b,omitempty"`
	Eagles             int      `json:"e,omitempty"`
	Pars               int      `json:"par,omitempty"`
}

type dbRound struct {
	ID                string    `db:"id"`
	DataFormatVersion int       `db:"data_format_version"`
	UserID            string    `db:"user_id"`
	PlayedAt          time.Time `db:"played_at"`
	RoundData         []byte    `db:"round_data"`
}

func roundToDataStorage(round domain.Round) ([]byte, error) {
	data := roundDataStorage{
		Course:             round.Course,
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
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal round data: %w", err)
	}
	return raw, nil
}

func dbRoundToRound(row dbRound) (domain.Round, error) {
	var data roundDataStorage
	err := json.Unmarshal(row.RoundData, &data)
	if err != nil {
		return domain.Round{}, fmt.Errorf("failed to unmarshal round data: %w", err)
	}

	return domain.Round{
		ID:                 row.ID,
		UserID:             row.UserID,
		Course:             data.Course,
		PlayedAt:           row.PlayedAt,
		Holes:              data.Holes,
		GrossScore:         data.GrossScore,
		Handicap:           data.Handicap,
		Putts:              data.Putts,
		FairwaysHit:        data.FairwaysHit,
		FairwaysPossible:   data.FairwaysPossible,
		GreensInRegulation: data.GreensInRegulation,
		UpAndDownsMade:     data.UpAndDownsMade,
		UpAndDownsMissed:   data.UpAndDownsMissed,
		Birdies:            data.Birdies,
		Eagles:             data.Eagles,
		Pars:               data.Pars,
	}, nil
}

func (p *Postgres) StoreRound(ctx context.Context, round domain.Round) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreRound")
	defer span.End()

	if round.ID == "" {
		err := fmt.Errorf("round ID is empty")
		reporting.Report(ctx, err, map[string]string{
			"userId": round.UserID,
		})
		return err
	}
	if !strutils.UserIDIsNormalized(round.UserID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId":  round.UserID,
			"roundId": round.ID,
		})
		return err
	}

	roundData, err := roundToDataStorage(round)
	if err != nil {
		err := fmt.Errorf("failed to convert round to data storage: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId":  round.UserID,
			"roundId": round.ID,
		})
		return err
	}

	_, err = p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.rounds
		(id, user_id, played_at, data_format_version, round_data)
		VALUES ($1, $2, $3, $4, $5)`,
			pq.QuoteIdentifier(p.schema)),
		round.ID,
		round.UserID,
		round.PlayedAt,
		DATA_FORMAT_VERSION,
		roundData,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert round: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId":  round.UserID,
			"roundId": round.ID,
		})
		return err
	}

	return nil
}

func (p *Postgres) ListRoundsForUser(ctx context.Context, userID string) ([]domain.Round, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListRoundsForUser")
	defer span.End()

	if !strutils.UserIDIsNormalized(userID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return nil, err
	}

	rows := []dbRound{}
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT
			id, data_format_version, user_id, played_at, round_data
		FROM %s.rounds
		WHERE user_id = $1
		ORDER BY played_at ASC, id ASC`,
			pq.QuoteIdentifier(p.schema)),
		userID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select rounds for user: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return nil, err
	}

	return p.convertRows(ctx, rows)
}

func (p *Postgres) ListAllRounds(ctx context.Context) ([]domain.Round, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListAllRounds")
	defer span.End()

	rows := []dbRound{}
	lastID := "" // Initial cursor sorts before every id
	for {
		batch := make([]dbRound, 0, listBatchSize)
		err := p.db.SelectContext(
			ctx,
			&batch,
			fmt.Sprintf(`SELECT
				id, data_format_version, user_id, played_at, round_data
			FROM %s.rounds
			WHERE id > $1
			ORDER BY id ASC
			LIMIT $2`,
				pq.QuoteIdentifier(p.schema)),
			lastID,
			listBatchSize,
		)
		if err != nil {
			err := fmt.Errorf("failed to select batch of rounds: %w", err)
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

func (p *Postgres) convertRows(ctx context.Context, rows []dbRound) ([]domain.Round, error) {
	rounds := make([]domain.Round, 0, len(rows))
	for _, row := range rows {
		round, err := dbRoundToRound(row)
		if err != nil {
			err := fmt.Errorf("failed to convert db round: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"roundId": row.ID,
			})
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) StoreRound(ctx context.Context, round domain.Round) error {
	return nil
}

func (s *Stub) ListRoundsForUser(ctx context.Context, userID string) ([]domain.Round, error) {
	return []domain.Round{}, nil
}

func (s *Stub) ListAllRounds(ctx context.Context) ([]domain.Round, error) {
	return []domain.Round{}, nil
}
