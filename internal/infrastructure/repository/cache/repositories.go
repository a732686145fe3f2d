package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/user"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const matchKeyPrefix = "match:"

type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	v, err := r.cache.GetOrLoad(ctx, "user:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]user.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]user.User)
	return append([]user.User(nil), items...), nil
}

// MatchRepository caches season and matchday listings. Every write drops
// all cached listings since one upsert can move a match between matchdays.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListBySeason(ctx context.Context, season int) ([]match.Match, error) {
	key := matchKeyPrefix + "season:" + strconv.Itoa(season)
	return r.loadList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListBySeason(ctx, season)
	})
}

func (r *MatchRepository) ListBySeasonMatchday(ctx context.Context, season, matchday int) ([]match.Match, error) {
	key := matchKeyPrefix + "season:" + strconv.Itoa(season) + ":matchday:" + strconv.Itoa(matchday)
	return r.loadList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListBySeasonMatchday(ctx, season, matchday)
	})
}

func (r *MatchRepository) ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]match.Match, error) {
	return r.next.ListByMatchIDs(ctx, matchIDs)
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	saved, err := r.next.Upsert(ctx, item)
	if err != nil {
		return match.Match{}, err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return saved, nil
}

func (r *MatchRepository) UpdateResult(ctx context.Context, result match.Result) (bool, error) {
	found, err := r.next.UpdateResult(ctx, result)
	if err != nil {
		return false, err
	}
	if found {
		r.cache.DeletePrefix(ctx, matchKeyPrefix)
	}
	return found, nil
}

func (r *MatchRepository) loadList(ctx context.Context, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}
