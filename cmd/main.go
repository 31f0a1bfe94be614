package main

import (
	"context"
	"os"

	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/medha-kiot/command-center/internal/api"
	"github.com/medha-kiot/command-center/internal/auth"
	"github.com/medha-kiot/command-center/internal/config"
	"github.com/medha-kiot/command-center/internal/db"
	"github.com/medha-kiot/command-center/internal/mail"
	"github.com/medha-kiot/command-center/internal/repository"
	"github.com/medha-kiot/command-center/internal/service"
	"github.com/medha-kiot/command-center/pkg/logger"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application", zap.String("version", version))

	auth.TokenSecretKey = cfg.AuthSecret
	if !auth.Enabled() {
		logger.Warn("TOKEN_AUTH_SECRET not set, /send-mail is unauthenticated")
	}

	sender := mail.NewSMTPSender(mail.SMTPConfig(cfg.SMTP))
	if !cfg.SMTP.Configured() {
		logger.Warn("EMAIL_USER or EMAIL_PASS not set, sends will be rejected")
	}

	dispatch := service.NewDispatchService(sender, mail.NewTemplate(mail.DefaultBrand), service.DispatchConfig{
		PauseEvery: cfg.Broadcast.PauseEvery,
		Pause:      cfg.Broadcast.Pause,
		RatePerSec: cfg.Broadcast.RatePerSec,
	})

	checks := []health.Config{api.MailCheck(sender.Configured)}

	if cfg.DatabaseURL != "" {
		ctx := context.Background()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err = pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}

		if err = db.Migrate(ctx, pool); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}

		logger.Info("database connection established")

		dispatch.WithTeamRepo(repository.NewPgxTeamRepository(pool))
		checks = append(checks, api.PostgresCheck(pool))
	} else {
		logger.Warn("DATABASE_URL not set, broadcasts need an explicit recipient list")
	}

	checker, err := api.NewHealthChecker(version, checks...)
	if err != nil {
		logger.Fatal("failed to create health checker", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true

	handler := api.NewHandler(logger).
		WithDispatchService(dispatch).
		WithHealthChecker(checker).
		WithCORSOrigins(cfg.CORSOrigins)

	handler.RegisterRoutes(e)

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr))
	if err = e.Start(addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
