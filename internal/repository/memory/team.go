package memory

import (
	"context"
	"sync"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"

	"github.com/google/uuid"
)

type TeamRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	nextID int32
	items  map[string]*domain.Team
}

func NewTeamRepository(clk clock.Clock) *TeamRepository {
	return &TeamRepository{clock: clk, nextID: 1, items: map[string]*domain.Team{}}
}

func (r *TeamRepository) Insert(_ context.Context, team repository.TeamForInsert) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := &domain.Team{
		ID:        r.nextID,
		Ref:       uuid.NewString(),
		Title:     team.Title,
		OrgRef:    team.OrgRef,
		CreatedAt: r.clock.Now(),
	}
	r.nextID++
	r.items[created.Ref] = created
	cp := *created
	return &cp, nil
}

// Add seeds a team under a caller-chosen ref, for test fixtures.
func (r *TeamRepository) Add(team *domain.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *team
	r.items[team.Ref] = &cp
}

func (r *TeamRepository) Find(_ context.Context, ref string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TeamRepository) Update(_ context.Context, ref, title string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	t.Title = title
	cp := *t
	return &cp, nil
}

func (r *TeamRepository) Remove(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ref]; !ok {
		return fault.ErrNotFound
	}
	delete(r.items, ref)
	return nil
}
