package memory

import (
	"context"
	"sync"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"

	"github.com/google/uuid"
)

type InvitationRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	nextID int32
	items  map[string]*domain.Invitation
}

func NewInvitationRepository(clk clock.Clock) *InvitationRepository {
	return &InvitationRepository{clock: clk, nextID: 1, items: map[string]*domain.Invitation{}}
}

func (r *InvitationRepository) Insert(_ context.Context, inv repository.InvitationForCreate) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := &domain.Invitation{
		ID:        r.nextID,
		Ref:       uuid.NewString(),
		Invitee:   inv.Invitee,
		Inviter:   inv.Inviter,
		TeamRef:   inv.TeamRef,
		Status:    domain.InvitationStatusInProgress,
		CreatedAt: r.clock.Now(),
	}
	r.nextID++
	r.items[created.Ref] = created
	return copyInvitation(created), nil
}

func (r *InvitationRepository) Find(_ context.Context, ref string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	return copyInvitation(inv), nil
}

func (r *InvitationRepository) FindByTeamAndRecipient(_ context.Context, teamRef, to string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.items {
		if inv.TeamRef != nil && *inv.TeamRef == teamRef &&
			inv.Invitee.Email != nil && *inv.Invitee.Email == to {
			return copyInvitation(inv), nil
		}
	}
	return nil, fault.ErrNotFound
}

func (r *InvitationRepository) SetToken(_ context.Context, ref, token string) (*domain.Invitation, error) {
	return r.mutate(ref, func(inv *domain.Invitation) {
		t := token
		inv.Token = &t
	})
}

func (r *InvitationRepository) SetStatus(_ context.Context, ref string, status domain.InvitationStatus) (*domain.Invitation, error) {
	return r.mutate(ref, func(inv *domain.Invitation) {
		inv.Status = status
	})
}

func (r *InvitationRepository) SetInviteeEmail(_ context.Context, ref, email string) (*domain.Invitation, error) {
	return r.mutate(ref, func(inv *domain.Invitation) {
		e := email
		inv.Invitee.Email = &e
	})
}

func (r *InvitationRepository) MarkExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := r.clock.Now()
	for _, inv := range r.items {
		if inv.Status == domain.InvitationStatusInProgress && inv.CreatedAt.Before(cutoff) {
			inv.Status = domain.InvitationStatusExpired
			t := now
			inv.UpdatedAt = &t
			n++
		}
	}
	return n, nil
}

func (r *InvitationRepository) Remove(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ref]; !ok {
		return fault.ErrNotFound
	}
	delete(r.items, ref)
	return nil
}

func (r *InvitationRepository) mutate(ref string, apply func(*domain.Invitation)) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[ref]
	if !ok {
		return nil, fault.ErrNotFound
	}
	apply(inv)
	now := r.clock.Now()
	inv.UpdatedAt = &now
	return copyInvitation(inv), nil
}

func copyInvitation(inv *domain.Invitation) *domain.Invitation {
	cp := *inv
	return &cp
}
