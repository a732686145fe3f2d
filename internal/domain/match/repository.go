package match

import "context"

// Repository persists matches. Upsert creates the record when ID is empty.
type Repository interface {
	ListBySeason(ctx context.Context, season int) ([]Match, error)
	ListBySeasonMatchday(ctx context.Context, season, matchday int) ([]Match, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]Match, error)
	Upsert(ctx context.Context, item Match) (Match, error)
	// UpdateResult writes only the finished flag and goals of an existing
	// match. It reports false when no match carries the feed id.
	UpdateResult(ctx context.Context, result Result) (bool, error)
}
