package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medha-kiot/command-center/internal/db"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type SettingsRepository interface {
	Get(ctx context.Context, id string) (map[string]any, error)
	Upsert(ctx context.Context, id string, body map[string]any) error
}

type pgxSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &pgxSettingsRepository{pool: pool}
}

func (p *pgxSettingsRepository) Get(ctx context.Context, id string) (map[string]any, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("body"),
		sm.From("document"),
		sm.Where(
			psql.Quote("collection").EQ(psql.Arg(model.SettingsCollection)).
				And(psql.Quote("id").EQ(psql.Arg(id))),
		),
		sm.ForUpdate("document"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err = e.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	body := map[string]any{}
	if err = json.Unmarshal(raw, &body); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}
	return body, nil
}

func (p *pgxSettingsRepository) Upsert(ctx context.Context, id string, body map[string]any) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}

	q := psql.Insert(
		im.Into("document", "collection", "id", "body"),
		im.Values(psql.Arg(model.SettingsCollection), psql.Arg(id), psql.Arg(raw)),
		im.OnConflict("collection", "id").DoUpdate(
			im.SetExcluded("body"),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return err
}
