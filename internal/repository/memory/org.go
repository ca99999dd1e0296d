package memory

import (
	"context"
	"sync"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"

	"github.com/google/uuid"
)

type OrganizationRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	nextID int32
	items  map[string]*domain.Organization
}

func NewOrganizationRepository(clk clock.Clock) *OrganizationRepository {
	return &OrganizationRepository{clock: clk, nextID: 1, items: map[string]*domain.Organization{}}
}

func (r *OrganizationRepository) Insert(_ context.Context, title string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := &domain.Organization{
		ID:        r.nextID,
		Ref:       uuid.NewString(),
		Title:     title,
		CreatedAt: r.clock.Now(),
	}
	r.nextID++
	r.items[created.Ref] = created
	cp := *created
	return &cp, nil
}

func (r *OrganizationRepository) Find(_ context.Context, ref string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *OrganizationRepository) Update(_ context.Context, ref, title string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	o.Title = title
	cp := *o
	return &cp, nil
}

func (r *OrganizationRepository) Remove(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ref]; !ok {
		return fault.ErrNotFound
	}
	delete(r.items, ref)
	return nil
}
