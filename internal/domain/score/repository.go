package score

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, season int) ([]MatchdaySnapshot, error)
	Get(ctx context.Context, season, matchday int) (MatchdaySnapshot, bool, error)
	Upsert(ctx context.Context, item MatchdaySnapshot) (MatchdaySnapshot, error)
}
