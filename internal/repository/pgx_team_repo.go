package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medha-kiot/command-center/internal/db"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type TeamRepository interface {
	// Save stores rec under a generated ID and returns that ID.
	Save(ctx context.Context, rec *model.TeamRecord) (string, error)
	// ListLeaderEmails returns leader emails in insertion order, skipping blanks.
	ListLeaderEmails(ctx context.Context) ([]string, error)
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func (p *pgxTeamRepository) Save(ctx context.Context, rec *model.TeamRecord) (string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	body, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, "encode team record")
	}

	id := uuid.NewString()

	q := psql.Insert(
		im.Into("document", "collection", "id", "body"),
		im.Values(psql.Arg(model.TeamsCollection), psql.Arg(id), psql.Arg(body)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return "", err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return "", ErrAlreadyExists
	}
	if err != nil {
		return "", err
	}

	return id, nil
}

func (p *pgxTeamRepository) ListLeaderEmails(ctx context.Context) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw("body->'leader'->>'email'")),
		sm.From("document"),
		sm.Where(
			psql.Quote("collection").EQ(psql.Arg(model.TeamsCollection)),
		),
		sm.OrderBy(psql.Quote("seq")),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*string, error) {
		var email *string
		err := row.Scan(&email)
		return email, err
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(emails))
	for _, email := range emails {
		if email != nil && *email != "" {
			out = append(out, *email)
		}
	}
	return out, nil
}
