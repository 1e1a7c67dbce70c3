package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption-marketplace/internal/domain/users"
)

type userRepo struct {
	mu      sync.RWMutex
	byEmail map[string]users.User
	order   []string
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byEmail: make(map[string]users.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.Email) == "" {
		return errors.New("user email required")
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return users.ErrEmailTaken
	}
	r.byEmail[u.Email] = u
	r.order = append(r.order, u.Email)
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0, len(r.order))
	for _, email := range r.order {
		out = append(out, r.byEmail[email])
	}
	return out, nil
}
