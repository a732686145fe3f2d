package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Store is an in-process TTL cache for computed views such as season
// tables. Concurrent loads of one key share a single loader call.
//
// Every invalidation bumps a generation counter. A load that started
// before an invalidation is returned to its callers but not stored.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64
	ttl        time.Duration
	flight     resilience.SingleFlight
	now        func() time.Time
}

// NewStore returns a store whose entries live for ttl. A ttl <= 0 keeps
// entries until they are invalidated.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.put(key, value)
	s.mu.Unlock()
}

// put stores value under key. Callers hold mu.
func (s *Store) put(key string, value any) {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	s.invalidate(func(candidate string) bool { return candidate == key })
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.invalidate(func(candidate string) bool { return strings.HasPrefix(candidate, prefix) })
}

func (s *Store) invalidate(match func(key string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	for key := range s.entries {
		if match(key) {
			delete(s.entries, key)
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		started := s.currentGeneration()
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.generation == started {
			s.put(key, loaded)
		}
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Load is a typed wrapper around GetOrLoad. A nil store always calls loader.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if s == nil {
		return loader(ctx)
	}

	value, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cached value for %q has type %T", key, value)
	}
	return typed, nil
}
