package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/syncphase"
	"github.com/riskibarqy/prediction-league/internal/platform/feedtime"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/seq"
)

type SyncPhaseConfig struct {
	LookaheadDays int
	Location      *time.Location
}

// SyncPhaseService keeps the kickoff-bucketed phases that bound live polling.
type SyncPhaseService struct {
	phaseRepo syncphase.Repository
	matchRepo match.Repository
	cfg       SyncPhaseConfig
	logger    *logging.Logger
}

func NewSyncPhaseService(phaseRepo syncphase.Repository, matchRepo match.Repository, cfg SyncPhaseConfig, logger *logging.Logger) *SyncPhaseService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LookaheadDays < 0 {
		cfg.LookaheadDays = 0
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &SyncPhaseService{
		phaseRepo: phaseRepo,
		matchRepo: matchRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// ComputeUpcomingPhases groups the matches kicking off between now and the
// end of the day lookaheadDays ahead (in loc) by exact kickoff instant.
// Phases come back ordered by start, soonest first, regardless of input
// order; UpsertPhases writes them in that order. Match ids keep input order.
func ComputeUpcomingPhases(matches []match.Match, lookaheadDays int, now time.Time, loc *time.Location) []syncphase.Phase {
	until := feedtime.EndOfDay(now.AddDate(0, 0, lookaheadDays), loc)

	byStart := make(map[int64]int)
	phases := make([]syncphase.Phase, 0)
	for _, m := range matches {
		if m.KickoffAt.IsZero() || m.KickoffAt.Before(now) || m.KickoffAt.After(until) {
			continue
		}
		key := m.KickoffAt.Unix()
		idx, ok := byStart[key]
		if !ok {
			idx = len(phases)
			byStart[key] = idx
			phases = append(phases, syncphase.Phase{Start: time.Unix(key, 0).UTC()})
		}
		phases[idx].MatchIDs = append(phases[idx].MatchIDs, m.MatchID)
	}

	slices.SortStableFunc(phases, func(a, b syncphase.Phase) int {
		return a.Start.Compare(b.Start)
	})
	return phases
}

// RefreshUpcoming recomputes the phases of the season's upcoming matches and
// persists them.
func (s *SyncPhaseService) RefreshUpcoming(ctx context.Context, season int, now time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncPhaseService.RefreshUpcoming")
	defer span.End()

	matches, err := s.matchRepo.ListBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("list matches for season %d: %w", season, err)
	}

	phases := ComputeUpcomingPhases(matches, s.cfg.LookaheadDays, now, s.cfg.Location)
	return s.UpsertPhases(ctx, phases)
}

// UpsertPhases stores each phase, reusing the identity of a persisted phase
// with the same start. The stored match set is replaced, not merged. The
// first failure stops the loop; earlier writes stay.
func (s *SyncPhaseService) UpsertPhases(ctx context.Context, phases []syncphase.Phase) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncPhaseService.UpsertPhases")
	defer span.End()

	written := 0
	for _, phase := range phases {
		existing, exists, err := s.phaseRepo.GetByStart(ctx, phase.Start)
		if err != nil {
			return written, fmt.Errorf("get sync phase start=%d: %w", phase.Start.Unix(), err)
		}

		item := syncphase.Phase{
			Start:    phase.Start.UTC(),
			MatchIDs: seq.Unique(phase.MatchIDs),
		}
		if exists {
			item.ID = existing.ID
		}
		if _, err := s.phaseRepo.Upsert(ctx, item); err != nil {
			return written, fmt.Errorf("upsert sync phase start=%d: %w", phase.Start.Unix(), err)
		}
		written++
	}

	return written, nil
}

// ReapRetiredPhases deletes started phases whose matches have all finished.
func (s *SyncPhaseService) ReapRetiredPhases(ctx context.Context, now time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncPhaseService.ReapRetiredPhases")
	defer span.End()

	phases, err := s.phaseRepo.ListStartingUntil(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list started sync phases: %w", err)
	}

	reaped := 0
	for _, phase := range phases {
		retired, err := s.isRetired(ctx, phase)
		if err != nil {
			return reaped, err
		}
		if !retired {
			continue
		}
		if err := s.phaseRepo.Delete(ctx, phase.ID); err != nil {
			return reaped, fmt.Errorf("delete sync phase id=%s: %w", phase.ID, err)
		}
		reaped++
		s.logger.DebugContext(ctx, "sync phase retired", "phase_id", phase.ID, "start", phase.Start)
	}

	return reaped, nil
}

func (s *SyncPhaseService) isRetired(ctx context.Context, phase syncphase.Phase) (bool, error) {
	ids := seq.Unique(phase.MatchIDs)
	if len(ids) == 0 {
		return true, nil
	}

	matches, err := s.matchRepo.ListByMatchIDs(ctx, ids)
	if err != nil {
		return false, fmt.Errorf("list matches of sync phase id=%s: %w", phase.ID, err)
	}
	if len(matches) < len(ids) {
		return false, nil
	}
	for _, m := range matches {
		if !m.IsFinished {
			return false, nil
		}
	}
	return true, nil
}

// DuePhases returns the persisted phases that have started by now.
func (s *SyncPhaseService) DuePhases(ctx context.Context, now time.Time) ([]syncphase.Phase, error) {
	phases, err := s.phaseRepo.ListStartingUntil(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list due sync phases: %w", err)
	}
	return phases, nil
}

func phaseMatchIDs(phases []syncphase.Phase) []int64 {
	ids := make([]int64, 0, len(phases)*2)
	for _, p := range phases {
		ids = append(ids, p.MatchIDs...)
	}
	return seq.Unique(ids)
}
