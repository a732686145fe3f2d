package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/synctime"
	matchmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/match"
	synctimemock "github.com/riskibarqy/prediction-league/internal/mocks/domain/synctime"
	"github.com/stretchr/testify/mock"
)

func matchdayEightFixtures(kickoff time.Time) []ExternalFixture {
	return []ExternalFixture{
		{
			MatchID:    64001,
			Matchday:   8,
			KickoffAt:  kickoff,
			TeamIDHome: 40,
			TeamIDAway: 7,
			IsFinished: true,
			Results:    []ExternalResult{{TypeID: ResultTypeFinal, Order: 2, GoalsHome: 2, GoalsAway: 1}},
		},
		{
			MatchID:    64002,
			Matchday:   8,
			KickoffAt:  kickoff.Add(2 * time.Hour),
			TeamIDHome: 16,
			TeamIDAway: 87,
		},
	}
}

func newReconcilerForTest(stores testStores, feed ReferenceFeed, now time.Time) *MatchReconciler {
	r := NewMatchReconciler(stores.matches, stores.syncTimes, feed, MatchReconcilerConfig{TeamsCount: 4}, nopLogger())
	r.now = fixedClock(now)
	return r
}

func TestMatchReconciler_SeasonShape(t *testing.T) {
	t.Parallel()

	r := NewMatchReconciler(nil, nil, nil, MatchReconcilerConfig{}, nopLogger())
	if r.MatchesPerMatchday() != 9 || r.Matchdays() != 34 {
		t.Fatalf("unexpected default shape: per=%d matchdays=%d", r.MatchesPerMatchday(), r.Matchdays())
	}
}

func TestMatchReconciler_ReconcileIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	kickoff := time.Unix(1664112600, 0).UTC()
	now := kickoff.Add(30 * time.Minute)
	feed := newFakeFeed()
	feed.fixtures[8] = matchdayEightFixtures(kickoff)

	r := newReconcilerForTest(stores, feed, now)

	first, err := r.Reconcile(ctx, testSeason, 8)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if first.Fetched != 2 || first.Updated != 2 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	stored, _ := stores.matches.ListBySeasonMatchday(ctx, testSeason, 8)
	if len(stored) != 2 {
		t.Fatalf("unexpected stored count: %d", len(stored))
	}
	if stored[0].GoalsHome != 2 || stored[0].GoalsAway != 1 || !stored[0].IsFinished {
		t.Fatalf("unexpected finished match: %+v", stored[0])
	}
	if stored[1].GoalsHome != match.UnknownGoals || stored[1].GoalsAway != match.UnknownGoals {
		t.Fatalf("future match must have unknown goals: %+v", stored[1])
	}

	watermark, ok, _ := stores.syncTimes.Get(ctx, testSeason, 8)
	if !ok || !watermark.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected watermark: ok=%v %+v", ok, watermark)
	}

	r.now = fixedClock(now.Add(time.Minute))
	second, err := r.Reconcile(ctx, testSeason, 8)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if second.Updated != 0 {
		t.Fatalf("second reconcile must not write, updated=%d", second.Updated)
	}
	watermark, _, _ = stores.syncTimes.Get(ctx, testSeason, 8)
	if !watermark.UpdatedAt.Equal(now) {
		t.Fatalf("watermark moved without writes: %v", watermark.UpdatedAt)
	}
}

func TestMatchReconciler_KeepsTopMatchFlagAndIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	kickoff := time.Unix(1664112600, 0).UTC()
	seeded, err := stores.matches.Upsert(ctx, match.Match{
		Season: testSeason, Matchday: 8, MatchID: 64001, KickoffAt: kickoff,
		TeamIDHome: 40, TeamIDAway: 7, GoalsHome: -1, GoalsAway: -1, IsTopMatch: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	feed := newFakeFeed()
	feed.fixtures[8] = matchdayEightFixtures(kickoff)[:1]
	r := newReconcilerForTest(stores, feed, kickoff.Add(3*time.Hour))

	if _, err := r.Reconcile(ctx, testSeason, 8); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	got, _ := stores.matches.ListByMatchIDs(ctx, []int64{64001})
	if len(got) != 1 || got[0].ID != seeded.ID || !got[0].IsTopMatch || got[0].GoalsHome != 2 {
		t.Fatalf("unexpected reconciled match: %+v", got)
	}
}

func TestMatchReconciler_NeedsUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kickoff := time.Unix(1664112600, 0).UTC()

	seed := func(t *testing.T, stores testStores, finished bool) {
		t.Helper()
		for _, id := range []int64{1, 2} {
			if _, err := stores.matches.Upsert(ctx, match.Match{Season: testSeason, Matchday: 3, MatchID: id, KickoffAt: kickoff, IsFinished: finished}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
	}

	t.Run("incomplete matchday", func(t *testing.T) {
		stores := newTestStores()
		r := newReconcilerForTest(stores, newFakeFeed(), kickoff)
		needed, err := r.NeedsUpdate(ctx, testSeason, 3)
		if err != nil || !needed {
			t.Fatalf("expected update: needed=%v err=%v", needed, err)
		}
	})

	t.Run("all finished", func(t *testing.T) {
		stores := newTestStores()
		seed(t, stores, true)
		feed := newFakeFeed()
		feed.lastChanged[3] = kickoff.Add(time.Hour)
		r := newReconcilerForTest(stores, feed, kickoff)
		needed, err := r.NeedsUpdate(ctx, testSeason, 3)
		if err != nil || needed {
			t.Fatalf("finished matchday must be fresh: needed=%v err=%v", needed, err)
		}
	})

	t.Run("no watermark", func(t *testing.T) {
		stores := newTestStores()
		seed(t, stores, false)
		feed := newFakeFeed()
		feed.lastChanged[3] = kickoff
		r := newReconcilerForTest(stores, feed, kickoff)
		needed, err := r.NeedsUpdate(ctx, testSeason, 3)
		if err != nil || !needed {
			t.Fatalf("expected update: needed=%v err=%v", needed, err)
		}
	})

	t.Run("feed newer than watermark", func(t *testing.T) {
		stores := newTestStores()
		seed(t, stores, false)
		if _, err := stores.syncTimes.Upsert(ctx, synctime.UpdateTime{Season: testSeason, Matchday: 3, UpdatedAt: kickoff}); err != nil {
			t.Fatalf("seed watermark: %v", err)
		}
		feed := newFakeFeed()
		feed.lastChanged[3] = kickoff.Add(time.Second)
		r := newReconcilerForTest(stores, feed, kickoff)
		needed, err := r.NeedsUpdate(ctx, testSeason, 3)
		if err != nil || !needed {
			t.Fatalf("expected update: needed=%v err=%v", needed, err)
		}

		feed.lastChanged[3] = kickoff
		needed, err = r.NeedsUpdate(ctx, testSeason, 3)
		if err != nil || needed {
			t.Fatalf("equal timestamps must be fresh: needed=%v err=%v", needed, err)
		}
	})

	t.Run("change date unavailable", func(t *testing.T) {
		stores := newTestStores()
		seed(t, stores, false)
		r := newReconcilerForTest(stores, newFakeFeed(), kickoff)
		needed, err := r.NeedsUpdate(ctx, testSeason, 3)
		if err != nil || needed {
			t.Fatalf("expected no update: needed=%v err=%v", needed, err)
		}
	})
}

func TestMatchReconciler_AbortsOnFirstWriteFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	syncTimeRepo := synctimemock.NewRepository(t)
	kickoff := time.Unix(1664112600, 0).UTC()
	feed := newFakeFeed()
	feed.fixtures[8] = matchdayEightFixtures(kickoff)

	matchRepo.On("ListByMatchIDs", ctx, []int64{64001, 64002}).Return([]match.Match{}, nil).Once()
	matchRepo.
		On("Upsert", ctx, mock.MatchedBy(func(m match.Match) bool { return m.MatchID == 64001 })).
		Return(match.Match{}, errStoreDown).
		Once()

	r := NewMatchReconciler(matchRepo, syncTimeRepo, feed, MatchReconcilerConfig{TeamsCount: 4}, nopLogger())
	r.now = fixedClock(kickoff.Add(3 * time.Hour))

	result, err := r.Reconcile(ctx, testSeason, 8)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if result.Updated != 0 {
		t.Fatalf("unexpected updated count: %d", result.Updated)
	}
	syncTimeRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestMatchReconciler_ReconcileLive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	kickoff := time.Unix(1664112600, 0).UTC()
	now := kickoff.Add(40 * time.Minute)

	for _, m := range []match.Match{
		{Season: testSeason, Matchday: 8, MatchID: 64001, KickoffAt: kickoff, GoalsHome: 0, GoalsAway: 0, TeamIDHome: 40, TeamIDAway: 7},
		{Season: testSeason, Matchday: 8, MatchID: 64003, KickoffAt: kickoff, IsFinished: true, GoalsHome: 1, GoalsAway: 1},
	} {
		if _, err := stores.matches.Upsert(ctx, m); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	feed := newFakeFeed()
	feed.fixtures[8] = []ExternalFixture{
		{
			MatchID:    64001,
			KickoffAt:  kickoff.Add(15 * time.Minute),
			TeamIDHome: 99,
			TeamIDAway: 98,
			Goals:      []ExternalGoal{{GoalsHome: 1, GoalsAway: 0, Minute: 21}},
		},
	}

	r := newReconcilerForTest(stores, feed, now)
	result, err := r.ReconcileLive(ctx, []int64{64001, 64003, 64001})
	if err != nil {
		t.Fatalf("reconcile live: %v", err)
	}
	if result.Checked != 1 || result.Updated != 1 || len(result.Matchdays) != 1 || result.Matchdays[0] != 8 {
		t.Fatalf("unexpected live result: %+v", result)
	}

	got, _ := stores.matches.ListByMatchIDs(ctx, []int64{64001})
	if got[0].GoalsHome != 1 || got[0].GoalsAway != 0 {
		t.Fatalf("goals not refreshed: %+v", got[0])
	}
	if got[0].TeamIDHome != 40 || !got[0].KickoffAt.Equal(kickoff) {
		t.Fatalf("schedule fields must stay: %+v", got[0])
	}
	if _, ok, _ := stores.syncTimes.Get(ctx, testSeason, 8); !ok {
		t.Fatalf("watermark not written")
	}
	if feed.fixtureCalls(8) != 1 {
		t.Fatalf("expected one feed call, got %d", feed.fixtureCalls(8))
	}
}

func TestMatchReconciler_FixtureReportingOtherMatchdayConverges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	kickoff := time.Unix(1664112600, 0).UTC()
	feed := newFakeFeed()
	feed.fixtures[8] = matchdayEightFixtures(kickoff)
	for i := range feed.fixtures[8] {
		feed.fixtures[8][i].Matchday = 9
	}

	r := newReconcilerForTest(stores, feed, kickoff.Add(3*time.Hour))
	first, err := r.Reconcile(ctx, testSeason, 8)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if first.Updated != 2 {
		t.Fatalf("unexpected first update count: %d", first.Updated)
	}

	second, err := r.Reconcile(ctx, testSeason, 8)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if second.Updated != 0 {
		t.Fatalf("rescheduled fixtures must not be rewritten, updated=%d", second.Updated)
	}

	moved, _ := stores.matches.ListBySeasonMatchday(ctx, testSeason, 9)
	if len(moved) != 2 {
		t.Fatalf("expected fixtures stored under matchday 9, got %d", len(moved))
	}
}

func TestMatchReconciler_ReconcileLiveKeepsTopMatchFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := newTestStores()
	kickoff := time.Unix(1664112600, 0).UTC()
	seeded := match.Match{Season: testSeason, Matchday: 8, MatchID: 64001, KickoffAt: kickoff, TeamIDHome: 40, TeamIDAway: 7, IsTopMatch: true}
	if _, err := stores.matches.Upsert(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	feed := newFakeFeed()
	feed.fixtures[8] = []ExternalFixture{
		{MatchID: 64001, KickoffAt: kickoff, TeamIDHome: 40, TeamIDAway: 7, Goals: []ExternalGoal{{GoalsHome: 0, GoalsAway: 1, Minute: 9}}},
	}

	r := NewMatchReconciler(staleMatchRepository{stores.matches}, stores.syncTimes, feed, MatchReconcilerConfig{TeamsCount: 4}, nopLogger())
	r.now = fixedClock(kickoff.Add(20 * time.Minute))

	result, err := r.ReconcileLive(ctx, []int64{64001})
	if err != nil {
		t.Fatalf("reconcile live: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("unexpected live result: %+v", result)
	}

	got, _ := stores.matches.ListByMatchIDs(ctx, []int64{64001})
	if !got[0].IsTopMatch {
		t.Fatalf("top-match flag overwritten by live refresh: %+v", got[0])
	}
	if got[0].GoalsHome != 0 || got[0].GoalsAway != 1 {
		t.Fatalf("goals not refreshed: %+v", got[0])
	}
}

func TestMatchReconciler_ReconcileLiveWritesOnlyResultUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	syncTimeRepo := synctimemock.NewRepository(t)
	kickoff := time.Unix(1664112600, 0).UTC()
	feed := newFakeFeed()
	feed.fixtures[8] = []ExternalFixture{
		{MatchID: 64001, KickoffAt: kickoff, IsFinished: true,
			Results: []ExternalResult{{TypeID: ResultTypeFinal, GoalsHome: 3, GoalsAway: 2}}},
	}

	matchRepo.On("ListByMatchIDs", ctx, []int64{64001}).
		Return([]match.Match{{ID: "m1", Season: testSeason, Matchday: 8, MatchID: 64001, KickoffAt: kickoff, GoalsHome: 1, GoalsAway: 2}}, nil).
		Once()
	matchRepo.On("UpdateResult", ctx, match.Result{MatchID: 64001, IsFinished: true, GoalsHome: 3, GoalsAway: 2}).
		Return(true, nil).
		Once()
	syncTimeRepo.On("Get", ctx, testSeason, 8).Return(synctime.UpdateTime{}, false, nil).Once()
	syncTimeRepo.On("Upsert", ctx, mock.AnythingOfType("synctime.UpdateTime")).Return(synctime.UpdateTime{}, nil).Once()

	r := NewMatchReconciler(matchRepo, syncTimeRepo, feed, MatchReconcilerConfig{TeamsCount: 4}, nopLogger())
	r.now = fixedClock(kickoff.Add(2 * time.Hour))

	result, err := r.ReconcileLive(ctx, []int64{64001})
	if err != nil {
		t.Fatalf("reconcile live: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("unexpected live result: %+v", result)
	}
	matchRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
