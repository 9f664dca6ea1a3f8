package memberrepository

import (
	"context"
	"database/sql"
	"errors"
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

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("teeline/memberrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

type dbMember struct {
	UserID           string    `db:"user_id"`
	DisplayName      string    `db:"display_name"`
	AvatarURL        string    `db:"avatar_url"`
	Handicap         *float64  `db:"handicap"`
	StartingHandicap float64   `db:"starting_handicap"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func dbMemberToMember(row dbMember) domain.Member {
	return domain.Member{
		UserID:           row.UserID,
		DisplayName:      row.DisplayName,
		AvatarURL:        row.AvatarURL,
		Handicap:         row.Handicap,
		StartingHandicap: row.StartingHandicap,
		CreatedAt:        row.CreatedAt,
	}
}

func (p *Postgres) UpsertMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.UpsertMember")
	defer span.End()

	if !strutils.UserIDIsNormalized(member.UserID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId": member.UserID,
		})
		return domain.Member{}, err
	}

	if member.StartingHandicap == 0 {
		member.StartingHandicap = domain.StartingHandicap
	}

	now := p.nowFunc()

	var row dbMember
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.members
		(user_id, display_name, avatar_url, handicap, starting_handicap, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			handicap = COALESCE(EXCLUDED.handicap, members.handicap),
			updated_at = EXCLUDED.updated_at
		RETURNING user_id, display_name, avatar_url, handicap, starting_handicap, created_at, updated_at`,
			pq.QuoteIdentifier(p.schema)),
		member.UserID,
		member.DisplayName,
		member.AvatarURL,
		member.Handicap,
		member.StartingHandicap,
		now,
	).StructScan(&row)
	if err != nil {
		err := fmt.Errorf("failed to upsert member: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId": member.UserID,
		})
		return domain.Member{}, err
	}

	return dbMemberToMember(row), nil
}

func (p *Postgres) GetMember(ctx context.Context, userID string) (*domain.Member, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetMember")
	defer span.End()

	if !strutils.UserIDIsNormalized(userID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return nil, err
	}

	var row dbMember
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`SELECT
			user_id, display_name, avatar_url, handicap, starting_handicap, created_at, updated_at
		FROM %s.members
		WHERE user_id = $1`,
			pq.QuoteIdentifier(p.schema)),
		userID,
	).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, userID)
	}
	if err != nil {
		err := fmt.Errorf("failed to select member: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return nil, err
	}

	member := dbMemberToMember(row)
	return &member, nil
}

func (p *Postgres) ListMembers(ctx context.Context) ([]domain.Member, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListMembers")
	defer span.End()

	rows := []dbMember{}
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT
			user_id, display_name, avatar_url, handicap, starting_handicap, created_at, updated_at
		FROM %s.members
		ORDER BY user_id ASC`,
			pq.QuoteIdentifier(p.schema)),
	)
	if err != nil {
		err := fmt.Errorf("failed to select members: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, dbMemberToMember(row))
	}
	return members, nil
}

// UpdateHandicap records the latest handicap for the member, creating the
// member record on first contact so round logging never depends on an
// onboarding step.
func (p *Postgres) UpdateHandicap(ctx context.Context, userID string, handicap float64) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.UpdateHandicap")
	defer span.End()

	if !strutils.UserIDIsNormalized(userID) {
		err := fmt.Errorf("user ID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return err
	}

	now := p.nowFunc()

	_, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.members
		(user_id, display_name, avatar_url, handicap, starting_handicap, created_at, updated_at)
		VALUES ($1, $2, '', $3, $4, $5, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			handicap = EXCLUDED.handicap,
			updated_at = EXCLUDED.updated_at`,
			pq.QuoteIdentifier(p.schema)),
		userID,
		defaultDisplayName(userID),
		handicap,
		domain.StartingHandicap,
		now,
	)
	if err != nil {
		err := fmt.Errorf("failed to update member handicap: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userId": userID,
		})
		return err
	}

	return nil
}

func defaultDisplayName(userID string) string {
	return "Member " + userID[:8]
}

type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) UpsertMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	return member, nil
}

func (s *Stub) GetMember(ctx context.Context, userID string) (*domain.Member, error) {
	return nil, domain.ErrMemberNotFound
}

func (s *Stub) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return []domain.Member{}, nil
}

func (s *Stub) UpdateHandicap(ctx context.Context, userID string, handicap float64) error {
	return nil
}
