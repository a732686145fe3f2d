package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/score"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

type ScoreSnapshotRepository struct {
	mu    sync.RWMutex
	ids   *lockedGenerator
	items map[matchdayKey]score.MatchdaySnapshot
}

func NewScoreSnapshotRepository(gen id.Generator) *ScoreSnapshotRepository {
	return &ScoreSnapshotRepository{
		ids:   newLockedGenerator(gen),
		items: make(map[matchdayKey]score.MatchdaySnapshot),
	}
}

func (r *ScoreSnapshotRepository) ListBySeason(_ context.Context, season int) ([]score.MatchdaySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]score.MatchdaySnapshot, 0)
	for key, item := range r.items {
		if key.season == season {
			out = append(out, cloneSnapshot(item))
		}
	}
	slices.SortFunc(out, func(a, b score.MatchdaySnapshot) int { return cmp.Compare(a.Matchday, b.Matchday) })
	return out, nil
}

func (r *ScoreSnapshotRepository) Get(_ context.Context, season, matchday int) (score.MatchdaySnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchdayKey{season: season, matchday: matchday}]
	if !ok {
		return score.MatchdaySnapshot{}, false, nil
	}
	return cloneSnapshot(item), true, nil
}

func (r *ScoreSnapshotRepository) Upsert(_ context.Context, item score.MatchdaySnapshot) (score.MatchdaySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := matchdayKey{season: item.Season, matchday: item.Matchday}
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return score.MatchdaySnapshot{}, fmt.Errorf("generate snapshot id: %w", err)
		}
		item.ID = newID
	}
	r.items[key] = cloneSnapshot(item)
	return cloneSnapshot(item), nil
}

func cloneSnapshot(s score.MatchdaySnapshot) score.MatchdaySnapshot {
	s.Scores = slices.Clone(s.Scores)
	return s
}
