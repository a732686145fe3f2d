package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items []user.User
}

func NewUserRepository(users []user.User) *UserRepository {
	items := slices.Clone(users)
	slices.SortFunc(items, func(a, b user.User) int { return strings.Compare(a.ID, b.ID) })
	return &UserRepository{items: items}
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items), nil
}
