package observability

import (
	"runtime"
	"strconv"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	mutexProfileFraction = 5
	blockProfileRate     = 5
)

func pyroscopeTags(cfg config.Config) map[string]string {
	return map[string]string{
		"env":     cfg.AppEnv,
		"service": cfg.ServiceName,
		"store":   cfg.StoreDriver,
		"league":  cfg.FeedLeague,
		"season":  strconv.Itoa(cfg.Season),
	}
}

// InitPyroscope starts continuous profiling when enabled. Mutex and block
// profiles only carry data once the runtime sampling rates are set, so they
// are turned on here and reset by the returned stop func.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Debug("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	previousMutex := runtime.SetMutexProfileFraction(mutexProfileFraction)
	runtime.SetBlockProfileRate(blockProfileRate)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPass,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              pyroscopeTags(cfg),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		runtime.SetMutexProfileFraction(previousMutex)
		runtime.SetBlockProfileRate(0)
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)

	return func() error {
		err := profiler.Stop()
		runtime.SetMutexProfileFraction(previousMutex)
		runtime.SetBlockProfileRate(0)
		return err
	}, nil
}
