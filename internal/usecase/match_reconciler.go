package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/synctime"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/seq"
)

type MatchReconcilerConfig struct {
	TeamsCount int
}

// MatchReconciler merges reference feed data into the stored matches and
// maintains the per-matchday watermarks.
type MatchReconciler struct {
	matchRepo    match.Repository
	syncTimeRepo synctime.Repository
	feed         ReferenceFeed
	cfg          MatchReconcilerConfig
	logger       *logging.Logger
	now          func() time.Time
}

type ReconcileResult struct {
	Season   int `json:"season"`
	Matchday int `json:"matchday"`
	Fetched  int `json:"fetched"`
	Updated  int `json:"updated"`
}

type LiveReconcileResult struct {
	Checked   int   `json:"checked"`
	Updated   int   `json:"updated"`
	Matchdays []int `json:"matchdays"`
}

func NewMatchReconciler(
	matchRepo match.Repository,
	syncTimeRepo synctime.Repository,
	feed ReferenceFeed,
	cfg MatchReconcilerConfig,
	logger *logging.Logger,
) *MatchReconciler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TeamsCount < 2 {
		cfg.TeamsCount = 18
	}

	return &MatchReconciler{
		matchRepo:    matchRepo,
		syncTimeRepo: syncTimeRepo,
		feed:         feed,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// MatchesPerMatchday is the size of a complete matchday.
func (s *MatchReconciler) MatchesPerMatchday() int {
	return s.cfg.TeamsCount / 2
}

// Matchdays is the length of a double round-robin season.
func (s *MatchReconciler) Matchdays() int {
	return 2 * (s.cfg.TeamsCount - 1)
}

// NeedsUpdate reports whether a matchday must be pulled from the feed: it is
// incomplete locally, or it still has unfinished matches and the feed
// changed after the stored watermark.
func (s *MatchReconciler) NeedsUpdate(ctx context.Context, season, matchday int) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReconciler.NeedsUpdate", matchdayAttrs(season, matchday)...)
	defer span.End()

	stored, err := s.matchRepo.ListBySeasonMatchday(ctx, season, matchday)
	if err != nil {
		return false, fmt.Errorf("list matches season=%d matchday=%d: %w", season, matchday, err)
	}
	if len(stored) < s.MatchesPerMatchday() {
		return true, nil
	}

	pending := false
	for _, m := range stored {
		if !m.IsFinished {
			pending = true
			break
		}
	}
	if !pending {
		return false, nil
	}

	lastChanged, ok, err := s.feed.FetchLastChanged(ctx, season, matchday)
	if err != nil {
		return false, fmt.Errorf("fetch last changed season=%d matchday=%d: %w", season, matchday, err)
	}
	if !ok {
		return false, nil
	}

	watermark, exists, err := s.syncTimeRepo.Get(ctx, season, matchday)
	if err != nil {
		return false, fmt.Errorf("get watermark season=%d matchday=%d: %w", season, matchday, err)
	}
	if !exists {
		return true, nil
	}

	return lastChanged.After(watermark.UpdatedAt), nil
}

// Reconcile pulls a matchday from the feed and writes every fixture that
// differs from the stored state.
func (s *MatchReconciler) Reconcile(ctx context.Context, season, matchday int) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReconciler.Reconcile", matchdayAttrs(season, matchday)...)
	defer span.End()

	fixtures, err := s.feed.FetchFixtures(ctx, season, matchday)
	if err != nil {
		recordSpanError(span, err)
		return ReconcileResult{Season: season, Matchday: matchday}, fmt.Errorf("fetch fixtures season=%d matchday=%d: %w", season, matchday, err)
	}

	result, err := s.ApplyFixtures(ctx, season, matchday, fixtures)
	recordSpanError(span, err)
	return result, err
}

// ApplyFixtures merges already fetched fixtures of one matchday. The
// watermark advances only when something was written and no write failed.
func (s *MatchReconciler) ApplyFixtures(ctx context.Context, season, matchday int, fixtures []ExternalFixture) (ReconcileResult, error) {
	result := ReconcileResult{Season: season, Matchday: matchday, Fetched: len(fixtures)}

	unique := make([]ExternalFixture, 0, len(fixtures))
	ids := make([]int64, 0, len(fixtures))
	for _, f := range seq.UniqueBy(fixtures, func(f ExternalFixture) int64 { return f.MatchID }) {
		if f.MatchID == 0 {
			continue
		}
		unique = append(unique, f)
		ids = append(ids, f.MatchID)
	}
	if len(unique) == 0 {
		return result, nil
	}

	// Fixtures may carry a matchday other than the one requested, so the
	// stored state is looked up by feed id.
	stored, err := s.matchRepo.ListByMatchIDs(ctx, ids)
	if err != nil {
		return result, fmt.Errorf("list matches season=%d matchday=%d: %w", season, matchday, err)
	}
	byMatchID := make(map[int64]match.Match, len(stored))
	for _, m := range stored {
		byMatchID[m.MatchID] = m
	}

	now := s.now()
	for _, f := range unique {
		candidate := canonicalMatch(season, matchday, f, now)
		if existing, ok := byMatchID[f.MatchID]; ok {
			candidate.ID = existing.ID
			candidate.IsTopMatch = existing.IsTopMatch
			if existing.SameState(candidate) {
				continue
			}
		}

		if _, err := s.matchRepo.Upsert(ctx, candidate); err != nil {
			return result, fmt.Errorf("upsert match id=%d: %w", f.MatchID, err)
		}
		result.Updated++
	}

	if result.Updated == 0 {
		return result, nil
	}
	if err := s.touchWatermark(ctx, season, matchday, now); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "matchday reconciled",
		"season", season,
		"matchday", matchday,
		"fetched", result.Fetched,
		"updated", result.Updated,
	)
	return result, nil
}

// ReconcileLive refreshes the finished flag and goals of the given matches
// that are still unfinished. Only those columns are written, so schedule
// fields and the top-match flag are left alone. Watermarks of
// every matchday visited are refreshed regardless of changes.
func (s *MatchReconciler) ReconcileLive(ctx context.Context, matchIDs []int64) (LiveReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReconciler.ReconcileLive")
	defer span.End()

	var result LiveReconcileResult
	ids := seq.Unique(matchIDs)
	if len(ids) == 0 {
		return result, nil
	}

	stored, err := s.matchRepo.ListByMatchIDs(ctx, ids)
	if err != nil {
		return result, fmt.Errorf("list live matches: %w", err)
	}

	type matchdayKey struct{ season, matchday int }
	order := make([]matchdayKey, 0)
	grouped := make(map[matchdayKey][]match.Match)
	for _, m := range stored {
		if m.IsFinished {
			continue
		}
		key := matchdayKey{season: m.Season, matchday: m.Matchday}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], m)
	}

	now := s.now()
	for _, key := range order {
		fixtures, err := s.feed.FetchFixtures(ctx, key.season, key.matchday)
		if err != nil {
			return result, fmt.Errorf("fetch fixtures season=%d matchday=%d: %w", key.season, key.matchday, err)
		}
		byMatchID := make(map[int64]ExternalFixture, len(fixtures))
		for _, f := range fixtures {
			byMatchID[f.MatchID] = f
		}

		for _, m := range grouped[key] {
			result.Checked++
			f, ok := byMatchID[m.MatchID]
			if !ok {
				continue
			}
			updated := m
			updated.IsFinished = f.IsFinished
			updated.GoalsHome, updated.GoalsAway = ExtractResult(f, now)
			if updated.SameState(m) {
				continue
			}
			found, err := s.matchRepo.UpdateResult(ctx, updated.Result())
			if err != nil {
				return result, fmt.Errorf("update live match id=%d: %w", m.MatchID, err)
			}
			if !found {
				continue
			}
			result.Updated++
		}
		result.Matchdays = append(result.Matchdays, key.matchday)
	}

	for _, key := range order {
		if err := s.touchWatermark(ctx, key.season, key.matchday, now); err != nil {
			return result, err
		}
	}

	if result.Checked > 0 {
		s.logger.InfoContext(ctx, "live matches reconciled", "checked", result.Checked, "updated", result.Updated)
	}
	return result, nil
}

func (s *MatchReconciler) touchWatermark(ctx context.Context, season, matchday int, now time.Time) error {
	current, exists, err := s.syncTimeRepo.Get(ctx, season, matchday)
	if err != nil {
		return fmt.Errorf("get watermark season=%d matchday=%d: %w", season, matchday, err)
	}

	item := synctime.UpdateTime{Season: season, Matchday: matchday, UpdatedAt: now.UTC()}
	if exists {
		item.ID = current.ID
	}
	if _, err := s.syncTimeRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("upsert watermark season=%d matchday=%d: %w", season, matchday, err)
	}
	return nil
}
