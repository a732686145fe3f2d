package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

type MatchRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[int64]match.Match
}

func NewMatchRepository(gen id.Generator, seed []match.Match) *MatchRepository {
	r := &MatchRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[int64]match.Match, len(seed)),
	}
	for _, item := range seed {
		r.items[item.MatchID] = item
	}
	return r
}

func (r *MatchRepository) ListBySeason(_ context.Context, season int) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool { return m.Season == season }), nil
}

func (r *MatchRepository) ListBySeasonMatchday(_ context.Context, season, matchday int) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool {
		return m.Season == season && m.Matchday == matchday
	}), nil
}

func (r *MatchRepository) ListByMatchIDs(_ context.Context, matchIDs []int64) ([]match.Match, error) {
	wanted := int64Set(matchIDs)
	return r.filter(func(m match.Match) bool {
		_, ok := wanted[m.MatchID]
		return ok
	}), nil
}

// Upsert keys matches by their feed id. An existing record keeps its ID.
func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[item.MatchID]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return match.Match{}, fmt.Errorf("generate match id: %w", err)
		}
		item.ID = newID
	}
	r.items[item.MatchID] = item
	return item, nil
}

func (r *MatchRepository) UpdateResult(_ context.Context, result match.Result) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[result.MatchID]
	if !ok {
		return false, nil
	}
	item.IsFinished = result.IsFinished
	item.GoalsHome = result.GoalsHome
	item.GoalsAway = result.GoalsAway
	r.items[result.MatchID] = item
	return true, nil
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b match.Match) int {
		if c := cmp.Compare(a.Matchday, b.Matchday); c != 0 {
			return c
		}
		if c := a.KickoffAt.Compare(b.KickoffAt); c != 0 {
			return c
		}
		return cmp.Compare(a.MatchID, b.MatchID)
	})
	return out
}
