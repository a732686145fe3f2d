package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type SeasonResultConfig struct {
	TeamsCount       int
	TopPlaces        int
	RelegationPlaces int
}

// SeasonResultService records the final places season bets are scored on.
type SeasonResultService struct {
	matchRepo  match.Repository
	resultRepo bet.SeasonResultRepository
	feed       ReferenceFeed
	cfg        SeasonResultConfig
	logger     *logging.Logger
}

type SeasonResultSync struct {
	Season   int  `json:"season"`
	Complete bool `json:"complete"`
	Written  int  `json:"written"`
}

func NewSeasonResultService(
	matchRepo match.Repository,
	resultRepo bet.SeasonResultRepository,
	feed ReferenceFeed,
	cfg SeasonResultConfig,
	logger *logging.Logger,
) *SeasonResultService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TopPlaces <= 0 {
		cfg.TopPlaces = 2
	}
	if cfg.RelegationPlaces <= 0 {
		cfg.RelegationPlaces = 3
	}
	return &SeasonResultService{
		matchRepo:  matchRepo,
		resultRepo: resultRepo,
		feed:       feed,
		cfg:        cfg,
		logger:     logger,
	}
}

// Sync stores the top and relegation places once every match of the season
// has finished. Running seasons are left untouched.
func (s *SeasonResultService) Sync(ctx context.Context, season int) (SeasonResultSync, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonResultService.Sync")
	defer span.End()

	out := SeasonResultSync{Season: season}
	matches, err := s.matchRepo.ListBySeason(ctx, season)
	if err != nil {
		return out, fmt.Errorf("list matches for season %d: %w", season, err)
	}
	expected := s.cfg.TeamsCount * (s.cfg.TeamsCount - 1)
	if len(matches) < expected {
		return out, nil
	}
	for _, m := range matches {
		if !m.IsFinished {
			return out, nil
		}
	}
	out.Complete = true

	standings, err := s.feed.FetchStandings(ctx, season)
	if err != nil {
		return out, fmt.Errorf("fetch standings for season %d: %w", season, err)
	}
	results := SeasonResultsFromStandings(season, standings, s.cfg.TopPlaces, s.cfg.RelegationPlaces)
	if len(results) == 0 {
		s.logger.WarnContext(ctx, "standings unavailable for finished season", "season", season)
		return out, nil
	}

	existing, err := s.resultRepo.ListBySeason(ctx, season)
	if err != nil {
		return out, fmt.Errorf("list season results: %w", err)
	}
	idByPlace := make(map[int]string, len(existing))
	for _, r := range existing {
		idByPlace[r.Place] = r.ID
	}

	for _, r := range results {
		r.ID = idByPlace[r.Place]
		if _, err := s.resultRepo.Upsert(ctx, r); err != nil {
			return out, fmt.Errorf("upsert season result place=%d: %w", r.Place, err)
		}
		out.Written++
	}
	return out, nil
}

// SeasonResultsFromStandings picks places 1..top and -1..-relegation (-1 is
// last) from a final table.
func SeasonResultsFromStandings(season int, standings []ExternalTeamRanking, top, relegation int) []bet.SeasonResult {
	if len(standings) == 0 {
		return nil
	}
	table := slices.Clone(standings)
	slices.SortStableFunc(table, func(a, b ExternalTeamRanking) int {
		return a.Place - b.Place
	})

	out := make([]bet.SeasonResult, 0, top+relegation)
	for place := 1; place <= top && place <= len(table); place++ {
		out = append(out, bet.SeasonResult{Season: season, Place: place, TeamID: table[place-1].TeamID})
	}
	for k := 1; k <= relegation && k <= len(table); k++ {
		out = append(out, bet.SeasonResult{Season: season, Place: -k, TeamID: table[len(table)-k].TeamID})
	}
	return out
}
