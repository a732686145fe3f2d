package usecase

import (
	"context"
	"fmt"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// MatchplanImportService loads a whole season schedule. Feed reads run on a
// bounded pool; writes go through the reconciler one matchday at a time.
type MatchplanImportService struct {
	reconciler *MatchReconciler
	feed       ReferenceFeed
	workers    int
	logger     *logging.Logger
}

type ImportResult struct {
	Season    int `json:"season"`
	Matchdays int `json:"matchdays"`
	Fetched   int `json:"fetched"`
	Updated   int `json:"updated"`
}

func NewMatchplanImportService(reconciler *MatchReconciler, feed ReferenceFeed, workers int, logger *logging.Logger) *MatchplanImportService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 4
	}
	return &MatchplanImportService{
		reconciler: reconciler,
		feed:       feed,
		workers:    workers,
		logger:     logger,
	}
}

func (s *MatchplanImportService) ImportSeason(ctx context.Context, season int) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchplanImportService.ImportSeason")
	defer span.End()

	result := ImportResult{Season: season}
	if season <= 0 {
		return result, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	matchdays := s.reconciler.Matchdays()
	fetched := make([][]ExternalFixture, matchdays+1)

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fetchErr error
	)
	for md := 1; md <= matchdays; md++ {
		md := md
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			fixtures, err := s.feed.FetchFixtures(ctx, season, md)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fetchErr = crerr.CombineErrors(fetchErr, fmt.Errorf("fetch matchday %d: %w", md, err))
				return
			}
			fetched[md] = fixtures
		}); err != nil {
			wg.Done()
			return result, fmt.Errorf("submit fetch to worker pool: %w", err)
		}
	}
	wg.Wait()
	if fetchErr != nil {
		return result, fetchErr
	}

	for md := 1; md <= matchdays; md++ {
		applied, err := s.reconciler.ApplyFixtures(ctx, season, md, fetched[md])
		result.Fetched += applied.Fetched
		result.Updated += applied.Updated
		if err != nil {
			return result, err
		}
		result.Matchdays++
	}

	s.logger.InfoContext(ctx, "matchplan imported",
		"season", season,
		"matchdays", result.Matchdays,
		"fetched", result.Fetched,
		"updated", result.Updated,
	)
	return result, nil
}
