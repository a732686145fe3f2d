package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = 10 * time.Minute

// cronLogger adapts the zap-backed logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler registers the sync pipeline, season results and, when
// enabled, the reminder run on their cron specs. Runs of the same job never
// overlap; a slow run makes the next tick skip.
func NewScheduler(ctx context.Context, cfg config.Config, services *Services, logger *logging.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = logging.Default()
	}
	log := cronLogger{logger: logger.Named("scheduler")}
	loc := services.Location
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)

	register := func(name, spec string, run func(ctx context.Context) error) error {
		_, err := c.AddFunc(spec, func() {
			jobCtx, cancel := context.WithTimeout(ctx, defaultJobTimeout)
			defer cancel()

			started := time.Now()
			if err := run(jobCtx); err != nil {
				logger.ErrorContext(jobCtx, "scheduled job failed", "job", name, "error", err, "duration", time.Since(started))
				return
			}
			logger.InfoContext(jobCtx, "scheduled job finished", "job", name, "duration", time.Since(started))
		})
		if err != nil {
			return fmt.Errorf("register %s job with spec %q: %w", name, spec, err)
		}
		return nil
	}

	if err := register("sync", cfg.SyncCron, func(ctx context.Context) error {
		_, err := services.Pipeline.Run(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	if cfg.SeasonResultCron != "" {
		if err := register("season-results", cfg.SeasonResultCron, func(ctx context.Context) error {
			_, err := services.SeasonResults.Sync(ctx, cfg.Season)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if services.Reminders != nil && cfg.ReminderCron != "" {
		if err := register("reminders", cfg.ReminderCron, func(ctx context.Context) error {
			result, err := services.Reminders.SendReminders(ctx, time.Now())
			if err != nil {
				return err
			}
			logger.InfoContext(ctx, "reminders sent", "users", result.Users, "sent", result.Sent, "failed", result.Failed)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	return c, nil
}
