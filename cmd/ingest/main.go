package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medha-kiot/command-center/internal/config"
	"github.com/medha-kiot/command-center/internal/db"
	"github.com/medha-kiot/command-center/internal/ingest"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/medha-kiot/command-center/internal/repository"
	"github.com/medha-kiot/command-center/internal/service"
	pkglogger "github.com/medha-kiot/command-center/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := pkglogger.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = pkglogger.WithLogger(ctx, logger)

	pipeline := ingest.NewPipeline(cfg.Ingest.Rules)

	if !cfg.Ingest.Upload {
		report, records, serr := service.NewIngestService(nil, pipeline, cfg.Ingest.Rules.BatchSize).Preview(ctx, cfg.Ingest.Dir)
		if serr != nil {
			logger.Fatal("ingestion failed", zap.String("code", string(serr.Code)), zap.String("error", serr.Message))
		}
		logPreview(logger, records)
		logReport(logger, report)
		logger.Info("dry run complete, set INGEST_UPLOAD=true to save teams")
		return
	}

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required when INGEST_UPLOAD=true")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = db.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	svc := service.NewIngestService(db.NewPgxTransactor(pool), pipeline, cfg.Ingest.Rules.BatchSize).
		WithTeamRepo(repository.NewPgxTeamRepository(pool)).
		WithSettingsRepo(repository.NewPgxSettingsRepository(pool))

	report, serr := svc.Import(ctx, cfg.Ingest.Dir)
	if report != nil {
		logReport(logger, report)
	}
	if serr != nil {
		logger.Fatal("ingestion failed", zap.String("code", string(serr.Code)), zap.String("error", serr.Message))
	}
}

func logPreview(l *zap.Logger, records []model.TeamRecord) {
	for i, rec := range records {
		names := make([]string, 0, len(rec.Members))
		for _, m := range rec.Members {
			names = append(names, m.Name)
		}
		l.Info("team",
			zap.Int("index", i+1),
			zap.String("team_name", rec.TeamName),
			zap.String("college", rec.Affiliation.College),
			zap.String("members", strings.Join(names, ", ")),
			zap.String("track", rec.Track))
	}
}

func logReport(l *zap.Logger, r *model.IngestReport) {
	l.Info("ingestion summary",
		zap.Strings("files", r.Files),
		zap.Int("rows_read", r.RowsRead),
		zap.Int("blank_rows", r.BlankRows),
		zap.Int("duplicates", len(r.Duplicates)),
		zap.Int("unique_teams", r.UniqueTeams),
		zap.Int("saved", r.Saved))
}
