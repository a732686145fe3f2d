package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleFlight deduplicates concurrent calls for the same key. The zero
// value is ready to use.
type SingleFlight struct {
	group singleflight.Group
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.group.Do(key, fn)
}

// DoContext waits for the shared call or for ctx, whichever ends first.
// The call itself keeps running for the remaining waiters.
func (g *SingleFlight) DoContext(ctx context.Context, key string, fn func() (any, error)) (any, error, bool) {
	ch := g.group.DoChan(key, fn)
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-ch:
		return res.Val, res.Err, res.Shared
	}
}
