package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const fixBetsAttempts = 3

// BetFixingService locks predictions once their match has kicked off.
// Fixing only ever sets IsFixed, so repeated runs are safe.
type BetFixingService struct {
	phases        *SyncPhaseService
	betRepo       bet.Repository
	seasonBetRepo bet.SeasonBetRepository
	matchRepo     match.Repository
	logger        *logging.Logger
}

func NewBetFixingService(
	phases *SyncPhaseService,
	betRepo bet.Repository,
	seasonBetRepo bet.SeasonBetRepository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *BetFixingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BetFixingService{
		phases:        phases,
		betRepo:       betRepo,
		seasonBetRepo: seasonBetRepo,
		matchRepo:     matchRepo,
		logger:        logger,
	}
}

// FixDueBets fixes every unfixed bet on a match of a due phase. It stops at
// the first failed write.
func (s *BetFixingService) FixDueBets(ctx context.Context, now time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetFixingService.FixDueBets")
	defer span.End()

	phases, err := s.phases.DuePhases(ctx, now)
	if err != nil {
		return 0, err
	}
	matchIDs := phaseMatchIDs(phases)
	if len(matchIDs) == 0 {
		return 0, nil
	}

	bets, err := s.betRepo.ListUnfixedByMatchIDs(ctx, matchIDs)
	if err != nil {
		return 0, fmt.Errorf("list unfixed bets: %w", err)
	}

	fixed := 0
	for _, b := range bets {
		if b.IsFixed {
			continue
		}
		b.IsFixed = true
		if _, err := s.betRepo.Upsert(ctx, b); err != nil {
			return fixed, fmt.Errorf("fix bet match_id=%d user_id=%s: %w", b.MatchID, b.UserID, err)
		}
		fixed++
	}

	if fixed > 0 {
		s.logger.InfoContext(ctx, "bets fixed", "count", fixed, "matches", len(matchIDs))
	}
	return fixed, nil
}

// FixDueBetsWithRetry runs FixDueBets up to three times. Each attempt picks
// up only the bets that are still unfixed.
func (s *BetFixingService) FixDueBetsWithRetry(ctx context.Context, now time.Time) (int, error) {
	total := 0
	err := resilience.Retry(ctx, fixBetsAttempts, 0, func(attempt int) error {
		fixed, err := s.FixDueBets(ctx, now)
		total += fixed
		if err != nil {
			s.logger.WarnContext(ctx, "fix due bets attempt failed", "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		return total, fmt.Errorf("fix due bets after %d attempts: %w", fixBetsAttempts, err)
	}
	return total, nil
}

// FixSeasonBets fixes the season predictions once the season's first match
// has kicked off.
func (s *BetFixingService) FixSeasonBets(ctx context.Context, season int, now time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetFixingService.FixSeasonBets")
	defer span.End()

	matches, err := s.matchRepo.ListBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("list matches for season %d: %w", season, err)
	}
	started := false
	for _, m := range matches {
		if m.HasKickedOff(now) {
			started = true
			break
		}
	}
	if !started {
		return 0, nil
	}

	bets, err := s.seasonBetRepo.ListUnfixedBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("list unfixed season bets: %w", err)
	}

	fixed := 0
	for _, b := range bets {
		if b.IsFixed {
			continue
		}
		b.IsFixed = true
		if _, err := s.seasonBetRepo.Upsert(ctx, b); err != nil {
			return fixed, fmt.Errorf("fix season bet user_id=%s place=%d: %w", b.UserID, b.Place, err)
		}
		fixed++
	}
	return fixed, nil
}
