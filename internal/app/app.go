package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/prediction-league/external/openligadb"
	"github.com/riskibarqy/prediction-league/external/webhook"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/score"
	"github.com/riskibarqy/prediction-league/internal/domain/syncphase"
	"github.com/riskibarqy/prediction-league/internal/domain/synctime"
	"github.com/riskibarqy/prediction-league/internal/domain/user"
	repocache "github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/feedtime"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// Services is the wired use case layer shared by the api and worker
// binaries.
type Services struct {
	Table         *usecase.TableService
	Pipeline      *usecase.SyncPipelineService
	Importer      *usecase.MatchplanImportService
	Reminders     *usecase.ReminderService
	SeasonResults *usecase.SeasonResultService
	Location      *time.Location
}

type repositories struct {
	matches       match.Repository
	bets          bet.Repository
	seasonBets    bet.SeasonBetRepository
	seasonResults bet.SeasonResultRepository
	phases        syncphase.Repository
	syncTimes     synctime.Repository
	snapshots     score.Repository
	users         user.Repository
}

// Build wires repositories, the reference feed and all use cases. The
// returned cleanup closes the database pool when one was opened.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	loc, err := feedtime.LoadLocation(cfg.FeedZone)
	if err != nil {
		return nil, nil, fmt.Errorf("load feed zone: %w", err)
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var tableCache *cache.Store
	if cfg.CacheEnabled {
		tableCache = cache.NewStore(cfg.CacheTTL)
		repos.users = repocache.NewUserRepository(repos.users, tableCache)
		repos.matches = repocache.NewMatchRepository(repos.matches, tableCache)
	}

	feed := openligadb.NewClient(openligadb.ClientConfig{
		BaseURL:        cfg.FeedBaseURL,
		League:         cfg.FeedLeague,
		Location:       loc,
		Timeout:        cfg.FeedTimeout,
		MaxRetries:     cfg.FeedMaxRetries,
		RetryBackoff:   cfg.FeedRetryBackoff,
		Logger:         logger.Named("openligadb"),
		CircuitBreaker: cfg.FeedCircuit,
	})

	rules := scoringRules(cfg.Scoring)

	reconciler := usecase.NewMatchReconciler(repos.matches, repos.syncTimes, feed, usecase.MatchReconcilerConfig{
		TeamsCount: cfg.TeamsCount,
	}, logger)
	phases := usecase.NewSyncPhaseService(repos.phases, repos.matches, usecase.SyncPhaseConfig{
		LookaheadDays: cfg.LookaheadDays,
		Location:      loc,
	}, logger)
	fixing := usecase.NewBetFixingService(phases, repos.bets, repos.seasonBets, repos.matches, logger)
	snapshots := usecase.NewScoreSnapshotService(repos.matches, repos.bets, repos.snapshots, rules, tableCache, logger)

	services := &Services{
		Table: usecase.NewTableService(repos.snapshots, repos.users, repos.seasonBets, repos.seasonResults, rules, tableCache),
		Pipeline: usecase.NewSyncPipelineService(reconciler, phases, fixing, snapshots, usecase.SyncPipelineConfig{
			Season: cfg.Season,
		}, logger),
		Importer: usecase.NewMatchplanImportService(reconciler, feed, cfg.ImportWorkers, logger),
		SeasonResults: usecase.NewSeasonResultService(repos.matches, repos.seasonResults, feed, usecase.SeasonResultConfig{
			TeamsCount:       cfg.TeamsCount,
			TopPlaces:        cfg.TopPlaces,
			RelegationPlaces: cfg.RelegationPlaces,
		}, logger),
		Location: loc,
	}

	if cfg.ReminderEnabled {
		notifier, err := webhook.NewNotifier(webhook.NotifierConfig{
			URL:            cfg.ReminderWebhookURL,
			Token:          cfg.ReminderWebhookToken,
			Timeout:        cfg.ReminderWebhookTimeout,
			CircuitBreaker: cfg.ReminderWebhookCircuit,
		}, logger.Named("webhook"))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		reminders, err := usecase.NewReminderService(repos.matches, repos.bets, repos.users, notifier, usecase.ReminderConfig{
			Season:   cfg.Season,
			Window:   cfg.ReminderWindow,
			Location: loc,
			Template: usecase.ReminderTemplate{
				Subject: cfg.ReminderSubject,
				Body:    cfg.ReminderBody,
			},
		}, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		services.Reminders = reminders
	}

	return services, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return repositories{
			matches:       memory.NewMatchRepository(idgen.NewUUIDGenerator(), nil),
			bets:          memory.NewBetRepository(idgen.NewUUIDGenerator(), nil),
			seasonBets:    memory.NewSeasonBetRepository(idgen.NewUUIDGenerator(), nil),
			seasonResults: memory.NewSeasonResultRepository(idgen.NewUUIDGenerator()),
			phases:        memory.NewSyncPhaseRepository(idgen.NewUUIDGenerator()),
			syncTimes:     memory.NewSyncTimeRepository(idgen.NewUUIDGenerator()),
			snapshots:     memory.NewScoreSnapshotRepository(idgen.NewUUIDGenerator()),
			users:         memory.NewUserRepository(memory.SeedUsers()),
		}, func() {}, nil
	case config.StoreDriverPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		ids := idgen.NewUUIDGenerator()
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("close database failed", "error", err)
			}
		}
		return repositories{
			matches:       postgres.NewMatchRepository(db, ids),
			bets:          postgres.NewBetRepository(db, ids),
			seasonBets:    postgres.NewSeasonBetRepository(db, ids),
			seasonResults: postgres.NewSeasonResultRepository(db, ids),
			phases:        postgres.NewSyncPhaseRepository(db, ids),
			syncTimes:     postgres.NewSyncTimeRepository(db, ids),
			snapshots:     postgres.NewScoreSnapshotRepository(db, ids),
			users:         postgres.NewUserRepository(db),
		}, cleanup, nil
	default:
		return repositories{}, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func scoringRules(cfg config.ScoringConfig) usecase.ScoringRules {
	return usecase.ScoringRules{
		TendencyPoints:      cfg.TendencyPoints,
		ResultBonus:         cfg.ResultBonus,
		TopMatchFactor:      cfg.TopMatchFactor,
		OutsiderPair:        cfg.OutsiderPair,
		OutsiderSolo:        cfg.OutsiderSolo,
		SeasonChampion:      cfg.SeasonChampion,
		SeasonRunnerUp:      cfg.SeasonRunnerUp,
		SeasonRelegation:    cfg.SeasonRelegation,
		SeasonRelegationAny: cfg.SeasonRelegationAny,
	}
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	handler := httpapi.NewHandler(httpapi.Services{
		Table:         services.Table,
		Pipeline:      services.Pipeline,
		Importer:      services.Importer,
		Reminders:     services.Reminders,
		SeasonResults: services.SeasonResults,
	}, cfg.Season, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
