package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/prediction-league/internal/app"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/observability"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Sample: cfg.AppEnv == config.EnvProd}).With("service", cfg.ServiceName+"-worker", "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Start(cfg, logger, false)
	if err != nil {
		logger.Error("start observability", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, cleanup, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	scheduler, err := app.NewScheduler(ctx, cfg, services, logger)
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("worker started",
		"season", cfg.Season,
		"sync_cron", cfg.SyncCron,
		"season_result_cron", cfg.SeasonResultCron,
		"reminders", cfg.ReminderEnabled,
	)

	<-ctx.Done()

	logger.Info("worker stopping; waiting for running jobs")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Warn("observability shutdown failed", "error", err)
	}

	logger.Info("worker stopped")
}
