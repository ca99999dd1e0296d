package memory

import (
	"context"
	"strings"
	"sync"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"
)

type UserRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	nextID int32
	items  map[string]*domain.User
}

func NewUserRepository(clk clock.Clock) *UserRepository {
	return &UserRepository{clock: clk, nextID: 1, items: map[string]*domain.User{}}
}

func (r *UserRepository) Insert(_ context.Context, user repository.UserForInsert) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, fault.ErrEmailAlreadyUsed
		}
	}
	created := &domain.User{
		ID:           r.nextID,
		Ref:          user.Ref,
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    r.clock.Now(),
	}
	r.nextID++
	r.items[created.Ref] = created
	cp := *created
	return &cp, nil
}

func (r *UserRepository) Find(_ context.Context, ref string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fault.ErrNotFound
}

func (r *UserRepository) Remove(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ref]; !ok {
		return fault.ErrNotFound
	}
	delete(r.items, ref)
	return nil
}
