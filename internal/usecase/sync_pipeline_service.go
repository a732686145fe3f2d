package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type SyncPipelineConfig struct {
	Season int
}

// SyncPipelineService runs one sequential sync pass. Overlapping calls in
// the same process share the pass in flight.
type SyncPipelineService struct {
	reconciler *MatchReconciler
	phases     *SyncPhaseService
	fixing     *BetFixingService
	snapshots  *ScoreSnapshotService
	cfg        SyncPipelineConfig
	logger     *logging.Logger
	now        func() time.Time
	flight     resilience.SingleFlight
}

type PipelineResult struct {
	Season              int       `json:"season"`
	StartedAt           time.Time `json:"startedAt"`
	MatchdaysChecked    int       `json:"matchdaysChecked"`
	MatchdaysReconciled int       `json:"matchdaysReconciled"`
	MatchesUpdated      int       `json:"matchesUpdated"`
	PhasesUpserted      int       `json:"phasesUpserted"`
	PhasesReaped        int       `json:"phasesReaped"`
	LiveMatchesChecked  int       `json:"liveMatchesChecked"`
	LiveMatchesUpdated  int       `json:"liveMatchesUpdated"`
	BetsFixed           int       `json:"betsFixed"`
	SeasonBetsFixed     int       `json:"seasonBetsFixed"`
	SnapshotsWritten    int       `json:"snapshotsWritten"`
	DurationMs          int64     `json:"durationMs"`
}

func NewSyncPipelineService(
	reconciler *MatchReconciler,
	phases *SyncPhaseService,
	fixing *BetFixingService,
	snapshots *ScoreSnapshotService,
	cfg SyncPipelineConfig,
	logger *logging.Logger,
) *SyncPipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncPipelineService{
		reconciler: reconciler,
		phases:     phases,
		fixing:     fixing,
		snapshots:  snapshots,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SyncPipelineService) Season() int {
	return s.cfg.Season
}

// Run executes the pass: stale matchdays, upcoming phases, retired phases,
// live matches of due phases, bet fixing, then snapshots of every matchday
// that changed. The first failing step ends the pass. The shared pass is
// detached from the caller's cancellation so that one caller going away
// does not fail the others waiting on it.
func (s *SyncPipelineService) Run(ctx context.Context) (PipelineResult, error) {
	detached := context.WithoutCancel(ctx)
	out, err, shared := s.flight.Do(fmt.Sprintf("sync-pipeline:%d", s.cfg.Season), func() (any, error) {
		return s.run(detached)
	})
	result, _ := out.(PipelineResult)
	if shared {
		s.logger.DebugContext(ctx, "sync pass joined in-flight run", "season", s.cfg.Season)
	}
	return result, err
}

func (s *SyncPipelineService) run(ctx context.Context) (PipelineResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncPipelineService.Run", attribute.Int("league.season", s.cfg.Season))
	defer span.End()

	season := s.cfg.Season
	started := s.now()
	result := PipelineResult{Season: season, StartedAt: started.UTC()}
	touched := make(map[int]struct{})
	fail := func(step string, err error) (PipelineResult, error) {
		result.DurationMs = time.Since(started).Milliseconds()
		s.logger.WarnContext(ctx, "sync pass aborted", "season", season, "step", step, "error", err)
		recordSpanError(span, err)
		return result, fmt.Errorf("%s: %w", step, err)
	}

	for md := 1; md <= s.reconciler.Matchdays(); md++ {
		result.MatchdaysChecked++
		needed, err := s.reconciler.NeedsUpdate(ctx, season, md)
		if err != nil {
			return fail("check matchday", err)
		}
		if !needed {
			continue
		}
		reconciled, err := s.reconciler.Reconcile(ctx, season, md)
		if err != nil {
			return fail("reconcile matchday", err)
		}
		result.MatchdaysReconciled++
		result.MatchesUpdated += reconciled.Updated
		if reconciled.Updated > 0 {
			touched[md] = struct{}{}
		}
	}

	now := s.now()
	upserted, err := s.phases.RefreshUpcoming(ctx, season, now)
	result.PhasesUpserted = upserted
	if err != nil {
		return fail("refresh phases", err)
	}

	reaped, err := s.phases.ReapRetiredPhases(ctx, now)
	result.PhasesReaped = reaped
	if err != nil {
		return fail("reap phases", err)
	}

	due, err := s.phases.DuePhases(ctx, now)
	if err != nil {
		return fail("load due phases", err)
	}
	live, err := s.reconciler.ReconcileLive(ctx, phaseMatchIDs(due))
	result.LiveMatchesChecked = live.Checked
	result.LiveMatchesUpdated = live.Updated
	if err != nil {
		return fail("reconcile live", err)
	}
	if live.Updated > 0 {
		for _, md := range live.Matchdays {
			touched[md] = struct{}{}
		}
	}

	fixed, err := s.fixing.FixDueBetsWithRetry(ctx, now)
	result.BetsFixed = fixed
	if err != nil {
		return fail("fix bets", err)
	}

	seasonFixed, err := s.fixing.FixSeasonBets(ctx, season, now)
	result.SeasonBetsFixed = seasonFixed
	if err != nil {
		return fail("fix season bets", err)
	}

	matchdays := make([]int, 0, len(touched))
	for md := range touched {
		matchdays = append(matchdays, md)
	}
	slices.Sort(matchdays)
	for _, md := range matchdays {
		if _, err := s.snapshots.RefreshMatchday(ctx, season, md); err != nil {
			return fail("refresh snapshots", err)
		}
		result.SnapshotsWritten++
	}

	result.DurationMs = time.Since(started).Milliseconds()
	s.logger.InfoContext(ctx, "sync pass completed",
		"season", season,
		"matchdays_reconciled", result.MatchdaysReconciled,
		"matches_updated", result.MatchesUpdated,
		"phases_upserted", result.PhasesUpserted,
		"phases_reaped", result.PhasesReaped,
		"live_updated", result.LiveMatchesUpdated,
		"bets_fixed", result.BetsFixed,
		"snapshots_written", result.SnapshotsWritten,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}
