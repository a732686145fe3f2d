package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// Runtime owns the tracing and profiling side channels of one binary.
type Runtime struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiler    func() error
	pprof           *http.Server
}

// Start brings up tracing and continuous profiling. The pprof listener is
// only started when withPprof is set, so api and worker do not fight over
// the same port.
func Start(cfg config.Config, logger *logging.Logger, withPprof bool) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{logger: logger, shutdownTracing: shutdownTracing, stopProfiler: func() error { return nil }}

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.stopProfiler = stopProfiler

	if withPprof {
		srv, err := StartPprofServer(cfg, logger)
		if err != nil {
			_ = rt.Shutdown(context.Background())
			return nil, err
		}
		rt.pprof = srv
	}
	return rt, nil
}

// Shutdown stops pprof first and flushes traces last so spans emitted
// while stopping are still exported.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if err := StopPprofServer(r.pprof, r.logger, 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if err := r.stopProfiler(); err != nil {
		errs = append(errs, err)
	}
	if err := r.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
