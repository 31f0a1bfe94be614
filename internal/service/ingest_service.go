package service

import (
	"context"
	"maps"
	"time"

	"github.com/medha-kiot/command-center/internal/db"
	"github.com/medha-kiot/command-center/internal/ingest"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/medha-kiot/command-center/internal/repository"
	"github.com/medha-kiot/command-center/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// IngestService persists the output of an ingestion pipeline run. Re-running
// against a populated store adds a second copy of every team; clearing the
// store first is the operator's call.
type IngestService struct {
	tx db.Transactor

	teams    repository.TeamRepository
	settings repository.SettingsRepository

	pipeline  *ingest.Pipeline
	batchSize int
	now       func() time.Time
}

func NewIngestService(tx db.Transactor, pipeline *ingest.Pipeline, batchSize int) *IngestService {
	if batchSize <= 0 {
		batchSize = 400
	}
	return &IngestService{
		tx:        tx,
		pipeline:  pipeline,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Preview parses dir without touching the store.
func (s *IngestService) Preview(ctx context.Context, dir string) (*model.IngestReport, []model.TeamRecord, *Error) {
	l := logger.FromContext(ctx)

	report, records, err := s.pipeline.Run(ctx, dir)
	if err != nil {
		l.Error("failed to parse spreadsheets", zap.String("dir", dir), zap.Error(err))
		return nil, nil, NewError(ErrorCodeSourceUnreadable, errors.Wrap(err, "failed to parse spreadsheets").Error())
	}
	return report, records, nil
}

// Import parses dir, saves every unique team in dedup order and seeds the
// settings document.
func (s *IngestService) Import(ctx context.Context, dir string) (*model.IngestReport, *Error) {
	l := logger.FromContext(ctx)

	report, records, serr := s.Preview(ctx, dir)
	if serr != nil {
		return nil, serr
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		batch := records[start:end]

		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			for i := range batch {
				id, err := s.teams.Save(txCtx, &batch[i])
				if err != nil {
					l.Error("failed to save team",
						zap.String("team_name", batch[i].TeamName),
						zap.Error(err))
					return err
				}
				l.Debug("team saved", zap.String("id", id), zap.String("team_name", batch[i].TeamName))
			}
			return nil
		})
		if err != nil {
			return report, NewError(ErrorCodeStoreUnavailable, "failed to save teams")
		}

		report.Saved += len(batch)
		l.Info("team batch committed", zap.Int("saved", report.Saved), zap.Int("total", len(records)))
	}

	if serr = s.seedSettings(ctx); serr != nil {
		return report, serr
	}

	l.Info("ingestion uploaded", zap.Int("teams", report.Saved))
	return report, nil
}

// seedSettings merges the default settings into the stored document.
func (s *IngestService) seedSettings(ctx context.Context) *Error {
	l := logger.FromContext(ctx)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.settings.Get(txCtx, model.SettingsMainID)
		if errors.Is(err, repository.ErrNotFound) {
			current = map[string]any{}
		} else if err != nil {
			return err
		}

		maps.Copy(current, model.SeedSettings(s.now()))
		return s.settings.Upsert(txCtx, model.SettingsMainID, current)
	})
	if err != nil {
		l.Error("failed to seed settings", zap.Error(err))
		return NewError(ErrorCodeStoreUnavailable, "failed to seed settings")
	}

	l.Info("settings document created/updated")
	return nil
}

func (s *IngestService) WithTeamRepo(r repository.TeamRepository) *IngestService {
	s.teams = r
	return s
}

func (s *IngestService) WithSettingsRepo(r repository.SettingsRepository) *IngestService {
	s.settings = r
	return s
}

// WithClock replaces the clock used to stamp the seeded settings.
func (s *IngestService) WithClock(now func() time.Time) *IngestService {
	s.now = now
	return s
}
