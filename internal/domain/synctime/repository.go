package synctime

import "context"

type Repository interface {
	Get(ctx context.Context, season, matchday int) (UpdateTime, bool, error)
	Upsert(ctx context.Context, item UpdateTime) (UpdateTime, error)
}
