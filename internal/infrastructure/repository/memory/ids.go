package memory

import (
	"sync"

	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

// lockedGenerator serialises a shared generator across repositories.
type lockedGenerator struct {
	mu  sync.Mutex
	gen id.Generator
}

func newLockedGenerator(gen id.Generator) *lockedGenerator {
	if gen == nil {
		gen = id.NewUUIDGenerator()
	}
	return &lockedGenerator{gen: gen}
}

func (g *lockedGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen.NewID()
}

func int64Set(values []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
