package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const testSeason = 2022

var errStoreDown = errors.New("store unavailable")

// fakeFeed serves canned fixtures per matchday.
type fakeFeed struct {
	mu          sync.Mutex
	fixtures    map[int][]ExternalFixture
	lastChanged map[int]time.Time
	standings   []ExternalTeamRanking
	fixtureErr  error
	calls       map[int]int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		fixtures:    make(map[int][]ExternalFixture),
		lastChanged: make(map[int]time.Time),
		calls:       make(map[int]int),
	}
}

func (f *fakeFeed) FetchFixtures(_ context.Context, _, matchday int) ([]ExternalFixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[matchday]++
	if f.fixtureErr != nil {
		return nil, f.fixtureErr
	}
	return append([]ExternalFixture(nil), f.fixtures[matchday]...), nil
}

func (f *fakeFeed) FetchLastChanged(_ context.Context, _, matchday int) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts, ok := f.lastChanged[matchday]
	return ts, ok, nil
}

func (f *fakeFeed) FetchStandings(_ context.Context, _ int) ([]ExternalTeamRanking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.standings, nil
}

func (f *fakeFeed) fixtureCalls(matchday int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[matchday]
}

// flakyBetRepository fails the first failures upserts.
type flakyBetRepository struct {
	*memory.BetRepository
	mu       sync.Mutex
	failures int
	upserts  int
}

func (r *flakyBetRepository) Upsert(ctx context.Context, item bet.Bet) (bet.Bet, error) {
	r.mu.Lock()
	r.upserts++
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return bet.Bet{}, errStoreDown
	}
	r.mu.Unlock()
	return r.BetRepository.Upsert(ctx, item)
}

// staleMatchRepository serves reads from a snapshot taken before a
// concurrent writer set the top-match flag.
type staleMatchRepository struct {
	*memory.MatchRepository
}

func (r staleMatchRepository) ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]match.Match, error) {
	items, err := r.MatchRepository.ListByMatchIDs(ctx, matchIDs)
	for i := range items {
		items[i].IsTopMatch = false
	}
	return items, err
}

// gatedFeed holds the first fixture fetch until release is closed and then
// honours the caller's context.
type gatedFeed struct {
	*fakeFeed
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedFeed(inner *fakeFeed) *gatedFeed {
	return &gatedFeed{fakeFeed: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (f *gatedFeed) FetchFixtures(ctx context.Context, season, matchday int) ([]ExternalFixture, error) {
	f.once.Do(func() {
		close(f.entered)
		<-f.release
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.fakeFeed.FetchFixtures(ctx, season, matchday)
}

func (f *gatedFeed) FetchLastChanged(ctx context.Context, season, matchday int) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	return f.fakeFeed.FetchLastChanged(ctx, season, matchday)
}

type testStores struct {
	matches       *memory.MatchRepository
	bets          *memory.BetRepository
	seasonBets    *memory.SeasonBetRepository
	seasonResults *memory.SeasonResultRepository
	phases        *memory.SyncPhaseRepository
	syncTimes     *memory.SyncTimeRepository
	snapshots     *memory.ScoreSnapshotRepository
}

func newTestStores() testStores {
	gen := id.NewSequence("rec")
	return testStores{
		matches:       memory.NewMatchRepository(gen, nil),
		bets:          memory.NewBetRepository(gen, nil),
		seasonBets:    memory.NewSeasonBetRepository(gen, nil),
		seasonResults: memory.NewSeasonResultRepository(gen),
		phases:        memory.NewSyncPhaseRepository(gen),
		syncTimes:     memory.NewSyncTimeRepository(gen),
		snapshots:     memory.NewScoreSnapshotRepository(gen),
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func nopLogger() *logging.Logger {
	return logging.NewNop()
}
