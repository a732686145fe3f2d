package syncphase

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Phase, error)
	ListStartingUntil(ctx context.Context, until time.Time) ([]Phase, error)
	GetByStart(ctx context.Context, start time.Time) (Phase, bool, error)
	Upsert(ctx context.Context, item Phase) (Phase, error)
	Delete(ctx context.Context, id string) error
}
