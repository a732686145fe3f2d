package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/score"
	"github.com/riskibarqy/prediction-league/internal/domain/user"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/seq"
)

// TableService assembles ranked standings from score snapshots.
type TableService struct {
	snapshotRepo     score.Repository
	userRepo         user.Repository
	seasonBetRepo    bet.SeasonBetRepository
	seasonResultRepo bet.SeasonResultRepository
	rules            ScoringRules
	cache            *cache.Store
}

func NewTableService(
	snapshotRepo score.Repository,
	userRepo user.Repository,
	seasonBetRepo bet.SeasonBetRepository,
	seasonResultRepo bet.SeasonResultRepository,
	rules ScoringRules,
	tableCache *cache.Store,
) *TableService {
	return &TableService{
		snapshotRepo:     snapshotRepo,
		userRepo:         userRepo,
		seasonBetRepo:    seasonBetRepo,
		seasonResultRepo: seasonResultRepo,
		rules:            rules,
		cache:            tableCache,
	}
}

func tableCachePrefix(season int) string {
	return "table:season:" + strconv.Itoa(season) + ":"
}

// SeasonTable ranks every user over the snapshots up to uptoMatchday
// (0 means all) plus their season bet points.
func (s *TableService) SeasonTable(ctx context.Context, season, uptoMatchday int) ([]RankedScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.SeasonTable")
	defer span.End()

	if season <= 0 || uptoMatchday < 0 {
		return nil, fmt.Errorf("%w: season must be > 0 and matchday >= 0", ErrInvalidInput)
	}

	key := tableCachePrefix(season) + "upto:" + strconv.Itoa(uptoMatchday)
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]RankedScore, error) {
		return s.buildSeasonTable(ctx, season, uptoMatchday)
	})
}

func (s *TableService) buildSeasonTable(ctx context.Context, season, uptoMatchday int) ([]RankedScore, error) {
	snapshots, err := s.snapshotRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list snapshots for season %d: %w", season, err)
	}
	base, err := s.zeroScores(ctx)
	if err != nil {
		return nil, err
	}

	arrays := make([][]score.Score, 0, len(snapshots)+2)
	arrays = append(arrays, base)
	for _, snap := range snapshots {
		if uptoMatchday > 0 && snap.Matchday > uptoMatchday {
			continue
		}
		arrays = append(arrays, snap.Scores)
	}

	seasonScores, err := s.seasonScores(ctx, season)
	if err != nil {
		return nil, err
	}
	arrays = append(arrays, seasonScores)

	return MakePositions(AddScoreArrays(arrays...), CompareScores), nil
}

// MatchdayTable ranks a single matchday snapshot.
func (s *TableService) MatchdayTable(ctx context.Context, season, matchday int) ([]RankedScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.MatchdayTable")
	defer span.End()

	if season <= 0 || matchday <= 0 {
		return nil, fmt.Errorf("%w: season and matchday must be > 0", ErrInvalidInput)
	}

	key := tableCachePrefix(season) + "matchday:" + strconv.Itoa(matchday)
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]RankedScore, error) {
		snap, exists, err := s.snapshotRepo.Get(ctx, season, matchday)
		if err != nil {
			return nil, fmt.Errorf("get snapshot season=%d matchday=%d: %w", season, matchday, err)
		}
		base, err := s.zeroScores(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return MakePositions(AddScoreArrays(base), CompareScores), nil
		}
		return MakePositions(AddScoreArrays(base, snap.Scores), CompareScores), nil
	})
}

// zeroScores gives every registered user a row, one per user id.
func (s *TableService) zeroScores(ctx context.Context) ([]score.Score, error) {
	if s.userRepo == nil {
		return nil, nil
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users = seq.UniqueBy(users, func(u user.User) string { return u.ID })

	out := make([]score.Score, 0, len(users))
	for _, u := range users {
		out = append(out, score.Score{UserID: u.ID})
	}
	return out, nil
}

func (s *TableService) seasonScores(ctx context.Context, season int) ([]score.Score, error) {
	if s.seasonBetRepo == nil || s.seasonResultRepo == nil {
		return nil, nil
	}
	results, err := s.seasonResultRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list season results: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	bets, err := s.seasonBetRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list season bets: %w", err)
	}

	byUser := make(map[string][]bet.SeasonBet)
	order := make([]string, 0)
	for _, b := range bets {
		if _, ok := byUser[b.UserID]; !ok {
			order = append(order, b.UserID)
		}
		byUser[b.UserID] = append(byUser[b.UserID], b)
	}

	out := make([]score.Score, 0, len(order))
	for _, userID := range order {
		points := s.rules.SeasonPoints(byUser[userID], results)
		if points == 0 {
			continue
		}
		out = append(out, score.Score{UserID: userID, Points: points, ExtraSeason: points})
	}
	return out, nil
}
