package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/syncphase"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

func seedDuePhase(t *testing.T, stores testStores, start time.Time, matchIDs ...int64) {
	t.Helper()
	if _, err := stores.phases.Upsert(context.Background(), syncphase.Phase{Start: start, MatchIDs: matchIDs}); err != nil {
		t.Fatalf("seed phase: %v", err)
	}
}

func TestBetFixingService_FixDueBetsIsMonotonic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	start := time.Unix(1664112600, 0).UTC()
	seedDuePhase(t, stores, start, 1, 2)
	seedDuePhase(t, stores, start.Add(24*time.Hour), 3)

	for _, b := range []bet.Bet{
		{MatchID: 1, UserID: "u1", GoalsHome: 1, GoalsAway: 0},
		{MatchID: 2, UserID: "u1", GoalsHome: 2, GoalsAway: 2},
		{MatchID: 2, UserID: "u2", GoalsHome: 0, GoalsAway: 1, IsFixed: true},
		{MatchID: 3, UserID: "u2", GoalsHome: 0, GoalsAway: 0},
	} {
		if _, err := stores.bets.Upsert(ctx, b); err != nil {
			t.Fatalf("seed bet: %v", err)
		}
	}

	phases := NewSyncPhaseService(stores.phases, stores.matches, SyncPhaseConfig{}, nopLogger())
	svc := NewBetFixingService(phases, stores.bets, stores.seasonBets, stores.matches, nopLogger())

	fixed, err := svc.FixDueBets(ctx, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if fixed != 2 {
		t.Fatalf("unexpected fixed count: got=%d want=2", fixed)
	}

	fixed, err = svc.FixDueBets(ctx, start.Add(2*time.Minute))
	if err != nil || fixed != 0 {
		t.Fatalf("second run must be a no-op: fixed=%d err=%v", fixed, err)
	}

	future, _ := stores.bets.ListByMatchIDs(ctx, []int64{3})
	if len(future) != 1 || future[0].IsFixed {
		t.Fatalf("bet of a future phase was fixed: %+v", future)
	}
	due, _ := stores.bets.ListByMatchIDs(ctx, []int64{1, 2})
	for _, b := range due {
		if !b.IsFixed {
			t.Fatalf("bet left unfixed: %+v", b)
		}
	}
}

func TestBetFixingService_RetriesFailedRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	start := time.Unix(1664112600, 0).UTC()
	seedDuePhase(t, stores, start, 1)

	flaky := &flakyBetRepository{
		BetRepository: memory.NewBetRepository(id.NewSequence("bet"), []bet.Bet{
			{ID: "b1", MatchID: 1, UserID: "u1", GoalsHome: 1, GoalsAway: 0},
			{ID: "b2", MatchID: 1, UserID: "u2", GoalsHome: 0, GoalsAway: 0},
		}),
		failures: 2,
	}

	phases := NewSyncPhaseService(stores.phases, stores.matches, SyncPhaseConfig{}, nopLogger())
	svc := NewBetFixingService(phases, flaky, stores.seasonBets, stores.matches, nopLogger())

	fixed, err := svc.FixDueBetsWithRetry(ctx, start)
	if err != nil {
		t.Fatalf("fix with retry: %v", err)
	}
	if fixed != 2 {
		t.Fatalf("unexpected fixed count: %d", fixed)
	}
	if flaky.upserts != 4 {
		t.Fatalf("unexpected upsert attempts: %d", flaky.upserts)
	}
}

func TestBetFixingService_GivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	start := time.Unix(1664112600, 0).UTC()
	seedDuePhase(t, stores, start, 1)

	flaky := &flakyBetRepository{
		BetRepository: memory.NewBetRepository(id.NewSequence("bet"), []bet.Bet{
			{ID: "b1", MatchID: 1, UserID: "u1", GoalsHome: 1, GoalsAway: 0},
		}),
		failures: 10,
	}

	phases := NewSyncPhaseService(stores.phases, stores.matches, SyncPhaseConfig{}, nopLogger())
	svc := NewBetFixingService(phases, flaky, stores.seasonBets, stores.matches, nopLogger())

	_, err := svc.FixDueBetsWithRetry(ctx, start)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if flaky.upserts != 3 {
		t.Fatalf("unexpected upsert attempts: %d", flaky.upserts)
	}
}

func TestBetFixingService_FixSeasonBetsAfterFirstKickoff(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	kickoff := time.Unix(1664112600, 0).UTC()

	if _, err := stores.matches.Upsert(ctx, match.Match{Season: testSeason, Matchday: 1, MatchID: 1, KickoffAt: kickoff}); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	for _, b := range []bet.SeasonBet{
		{Season: testSeason, UserID: "u1", Place: 1, TeamID: 40},
		{Season: testSeason, UserID: "u1", Place: -1, TeamID: 7},
	} {
		if _, err := stores.seasonBets.Upsert(ctx, b); err != nil {
			t.Fatalf("seed season bet: %v", err)
		}
	}

	svc := NewBetFixingService(nil, stores.bets, stores.seasonBets, stores.matches, nopLogger())

	fixed, err := svc.FixSeasonBets(ctx, testSeason, kickoff.Add(-time.Minute))
	if err != nil || fixed != 0 {
		t.Fatalf("season bets fixed before kickoff: fixed=%d err=%v", fixed, err)
	}

	fixed, err = svc.FixSeasonBets(ctx, testSeason, kickoff)
	if err != nil || fixed != 2 {
		t.Fatalf("unexpected fix result: fixed=%d err=%v", fixed, err)
	}
	unfixed, _ := stores.seasonBets.ListUnfixedBySeason(ctx, testSeason)
	if len(unfixed) != 0 {
		t.Fatalf("season bets left unfixed: %+v", unfixed)
	}
}
