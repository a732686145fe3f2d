package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/syncphase"
	"github.com/riskibarqy/prediction-league/internal/domain/synctime"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

type SyncPhaseRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[int64]syncphase.Phase
}

func NewSyncPhaseRepository(gen id.Generator) *SyncPhaseRepository {
	return &SyncPhaseRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[int64]syncphase.Phase),
	}
}

func (r *SyncPhaseRepository) List(_ context.Context) ([]syncphase.Phase, error) {
	return r.filter(func(syncphase.Phase) bool { return true }), nil
}

func (r *SyncPhaseRepository) ListStartingUntil(_ context.Context, until time.Time) ([]syncphase.Phase, error) {
	return r.filter(func(p syncphase.Phase) bool { return !p.Start.After(until) }), nil
}

func (r *SyncPhaseRepository) GetByStart(_ context.Context, start time.Time) (syncphase.Phase, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[start.Unix()]
	if !ok {
		return syncphase.Phase{}, false, nil
	}
	return clonePhase(item), true, nil
}

// Upsert keys phases by start second and replaces the stored match set.
func (r *SyncPhaseRepository) Upsert(_ context.Context, item syncphase.Phase) (syncphase.Phase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := item.Start.Unix()
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return syncphase.Phase{}, fmt.Errorf("generate sync phase id: %w", err)
		}
		item.ID = newID
	}
	item.Start = item.Start.UTC()
	r.items[key] = clonePhase(item)
	return clonePhase(item), nil
}

func (r *SyncPhaseRepository) Delete(_ context.Context, phaseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.items {
		if item.ID == phaseID {
			delete(r.items, key)
			return nil
		}
	}
	return nil
}

func (r *SyncPhaseRepository) filter(keep func(syncphase.Phase) bool) []syncphase.Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncphase.Phase, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, clonePhase(item))
		}
	}
	slices.SortFunc(out, func(a, b syncphase.Phase) int { return a.Start.Compare(b.Start) })
	return out
}

func clonePhase(p syncphase.Phase) syncphase.Phase {
	p.MatchIDs = slices.Clone(p.MatchIDs)
	return p
}

type matchdayKey struct {
	season   int
	matchday int
}

type SyncTimeRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[matchdayKey]synctime.UpdateTime
}

func NewSyncTimeRepository(gen id.Generator) *SyncTimeRepository {
	return &SyncTimeRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[matchdayKey]synctime.UpdateTime),
	}
}

func (r *SyncTimeRepository) Get(_ context.Context, season, matchday int) (synctime.UpdateTime, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchdayKey{season: season, matchday: matchday}]
	return item, ok, nil
}

func (r *SyncTimeRepository) Upsert(_ context.Context, item synctime.UpdateTime) (synctime.UpdateTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := matchdayKey{season: item.Season, matchday: item.Matchday}
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return synctime.UpdateTime{}, fmt.Errorf("generate sync time id: %w", err)
		}
		item.ID = newID
	}
	r.items[key] = item
	return item, nil
}
