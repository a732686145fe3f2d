package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace configures global OpenTelemetry providers for Uptrace.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	noop := func(context.Context) error { return nil }
	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noop, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Warn("uptrace enabled without UPTRACE_DSN; tracing stays off")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.Int("league.season", cfg.Season),
			attribute.String("league.feed", cfg.FeedLeague),
			attribute.String("store.driver", cfg.StoreDriver),
		),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"season", cfg.Season,
	)

	return uptrace.Shutdown, nil
}
