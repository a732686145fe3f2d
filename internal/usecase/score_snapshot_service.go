package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/score"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/seq"
	"github.com/sourcegraph/conc/iter"
)

// ScoreSnapshotService writes the per-matchday score snapshots that the
// tables are summed from.
type ScoreSnapshotService struct {
	matchRepo    match.Repository
	betRepo      bet.Repository
	snapshotRepo score.Repository
	rules        ScoringRules
	tableCache   *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewScoreSnapshotService(
	matchRepo match.Repository,
	betRepo bet.Repository,
	snapshotRepo score.Repository,
	rules ScoringRules,
	tableCache *cache.Store,
	logger *logging.Logger,
) *ScoreSnapshotService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreSnapshotService{
		matchRepo:    matchRepo,
		betRepo:      betRepo,
		snapshotRepo: snapshotRepo,
		rules:        rules,
		tableCache:   tableCache,
		logger:       logger,
		now:          time.Now,
	}
}

// RefreshMatchday recomputes and stores the snapshot of one matchday from
// every match with a known result.
func (s *ScoreSnapshotService) RefreshMatchday(ctx context.Context, season, matchday int) (score.MatchdaySnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreSnapshotService.RefreshMatchday", matchdayAttrs(season, matchday)...)
	defer span.End()

	matches, err := s.matchRepo.ListBySeasonMatchday(ctx, season, matchday)
	if err != nil {
		return score.MatchdaySnapshot{}, fmt.Errorf("list matches season=%d matchday=%d: %w", season, matchday, err)
	}

	scored := make([]match.Match, 0, len(matches))
	matchIDs := make([]int64, 0, len(matches))
	for _, m := range matches {
		if !m.HasResult() {
			continue
		}
		scored = append(scored, m)
		matchIDs = append(matchIDs, m.MatchID)
	}

	var bets []bet.Bet
	if len(matchIDs) > 0 {
		bets, err = s.betRepo.ListByMatchIDs(ctx, matchIDs)
		if err != nil {
			return score.MatchdaySnapshot{}, fmt.Errorf("list bets season=%d matchday=%d: %w", season, matchday, err)
		}
	}

	scores := ComputeMatchdayScores(s.rules, scored, bets)

	existing, exists, err := s.snapshotRepo.Get(ctx, season, matchday)
	if err != nil {
		return score.MatchdaySnapshot{}, fmt.Errorf("get snapshot season=%d matchday=%d: %w", season, matchday, err)
	}
	snapshot := score.MatchdaySnapshot{
		Season:       season,
		Matchday:     matchday,
		Scores:       scores,
		CalculatedAt: s.now().UTC(),
	}
	if exists {
		snapshot.ID = existing.ID
	}

	saved, err := s.snapshotRepo.Upsert(ctx, snapshot)
	if err != nil {
		return score.MatchdaySnapshot{}, fmt.Errorf("upsert snapshot season=%d matchday=%d: %w", season, matchday, err)
	}
	if s.tableCache != nil {
		s.tableCache.DeletePrefix(ctx, tableCachePrefix(season))
	}

	s.logger.DebugContext(ctx, "score snapshot written", "season", season, "matchday", matchday, "users", len(scores))
	return saved, nil
}

// ComputeMatchdayScores folds the match points of every user who bet on the
// given matches into one score per user, ordered by first bet seen.
func ComputeMatchdayScores(rules ScoringRules, matches []match.Match, bets []bet.Bet) []score.Score {
	betsByMatch := make(map[int64][]bet.Bet, len(matches))
	userIDs := make([]string, 0, len(bets))
	for _, b := range bets {
		betsByMatch[b.MatchID] = append(betsByMatch[b.MatchID], b)
		userIDs = append(userIDs, b.UserID)
	}
	userIDs = seq.Unique(userIDs)

	return iter.Map(userIDs, func(userID *string) score.Score {
		out := score.Score{UserID: *userID}
		for _, m := range matches {
			points := rules.MatchPoints(*userID, betsByMatch[m.MatchID], m, m.IsTopMatch)
			out.Points += points.Total
			out.ExtraTop += points.TopExtra
			out.ExtraOutsider += points.Outsider
			if points.TendencyHit {
				out.Matches++
			}
			if points.ResultHit {
				out.Results++
			}
		}
		return out
	})
}
