package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

type betKey struct {
	matchID int64
	userID  string
}

type BetRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[betKey]bet.Bet
}

func NewBetRepository(gen id.Generator, seed []bet.Bet) *BetRepository {
	r := &BetRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[betKey]bet.Bet, len(seed)),
	}
	for _, item := range seed {
		r.items[betKey{matchID: item.MatchID, userID: item.UserID}] = item
	}
	return r
}

func (r *BetRepository) ListByMatchIDs(_ context.Context, matchIDs []int64) ([]bet.Bet, error) {
	wanted := int64Set(matchIDs)
	return r.filter(func(b bet.Bet) bool {
		_, ok := wanted[b.MatchID]
		return ok
	}), nil
}

func (r *BetRepository) ListUnfixedByMatchIDs(_ context.Context, matchIDs []int64) ([]bet.Bet, error) {
	wanted := int64Set(matchIDs)
	return r.filter(func(b bet.Bet) bool {
		_, ok := wanted[b.MatchID]
		return ok && !b.IsFixed
	}), nil
}

func (r *BetRepository) Upsert(_ context.Context, item bet.Bet) (bet.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := betKey{matchID: item.MatchID, userID: item.UserID}
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
		}
		item.ID = newID
	}
	r.items[key] = item
	return item, nil
}

func (r *BetRepository) filter(keep func(bet.Bet) bool) []bet.Bet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b bet.Bet) int {
		if c := cmp.Compare(a.MatchID, b.MatchID); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	return out
}

type seasonBetKey struct {
	season int
	userID string
	place  int
}

type SeasonBetRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[seasonBetKey]bet.SeasonBet
}

func NewSeasonBetRepository(gen id.Generator, seed []bet.SeasonBet) *SeasonBetRepository {
	r := &SeasonBetRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[seasonBetKey]bet.SeasonBet, len(seed)),
	}
	for _, item := range seed {
		r.items[seasonBetKey{season: item.Season, userID: item.UserID, place: item.Place}] = item
	}
	return r
}

func (r *SeasonBetRepository) ListBySeason(_ context.Context, season int) ([]bet.SeasonBet, error) {
	return r.filter(func(b bet.SeasonBet) bool { return b.Season == season }), nil
}

func (r *SeasonBetRepository) ListUnfixedBySeason(_ context.Context, season int) ([]bet.SeasonBet, error) {
	return r.filter(func(b bet.SeasonBet) bool { return b.Season == season && !b.IsFixed }), nil
}

func (r *SeasonBetRepository) Upsert(_ context.Context, item bet.SeasonBet) (bet.SeasonBet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonBetKey{season: item.Season, userID: item.UserID, place: item.Place}
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return bet.SeasonBet{}, fmt.Errorf("generate season bet id: %w", err)
		}
		item.ID = newID
	}
	r.items[key] = item
	return item, nil
}

func (r *SeasonBetRepository) filter(keep func(bet.SeasonBet) bool) []bet.SeasonBet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.SeasonBet, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b bet.SeasonBet) int {
		if c := strings.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return cmp.Compare(a.Place, b.Place)
	})
	return out
}

type seasonResultKey struct {
	season int
	place  int
}

type SeasonResultRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[seasonResultKey]bet.SeasonResult
}

func NewSeasonResultRepository(gen id.Generator) *SeasonResultRepository {
	return &SeasonResultRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[seasonResultKey]bet.SeasonResult),
	}
}

func (r *SeasonResultRepository) ListBySeason(_ context.Context, season int) ([]bet.SeasonResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.SeasonResult, 0)
	for _, item := range r.items {
		if item.Season == season {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b bet.SeasonResult) int { return cmp.Compare(a.Place, b.Place) })
	return out, nil
}

func (r *SeasonResultRepository) Upsert(_ context.Context, item bet.SeasonResult) (bet.SeasonResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonResultKey{season: item.Season, place: item.Place}
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return bet.SeasonResult{}, fmt.Errorf("generate season result id: %w", err)
		}
		item.ID = newID
	}
	r.items[key] = item
	return item, nil
}
