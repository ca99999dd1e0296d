// Package memory provides deterministic in-memory repositories used by
// service tests and local runs without a database.
package memory

import (
	"context"
	"errors"
	"sync"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/repository"
)

// Store bundles the in-memory repositories over one shared state.
type Store struct {
	Invitations   *InvitationRepository
	Users         *UserRepository
	Teams         *TeamRepository
	Organizations *OrganizationRepository
	Emails        *EmailRepository
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		Invitations:   NewInvitationRepository(clk),
		Users:         NewUserRepository(clk),
		Teams:         NewTeamRepository(clk),
		Organizations: NewOrganizationRepository(clk),
		Emails:        NewEmailRepository(clk),
	}
}

// UnitOfWork runs closures against the store's repositories. Writes are not
// undone on error; tests assert on surfaced errors instead.
type UnitOfWork struct {
	store *Store
	mu    sync.Mutex
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Transaction(_ context.Context, fn func(tx repository.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	err := fn(&storeTx{store: u.store})
	if errors.Is(err, repository.ErrRollback) {
		return nil
	}
	return err
}

type storeTx struct {
	store *Store
}

func (t *storeTx) Invitations() repository.InvitationRepository { return t.store.Invitations }
func (t *storeTx) Users() repository.UserRepository             { return t.store.Users }
func (t *storeTx) Teams() repository.TeamRepository             { return t.store.Teams }
func (t *storeTx) Organizations() repository.OrganizationRepository {
	return t.store.Organizations
}
func (t *storeTx) Emails() repository.EmailRepository { return t.store.Emails }
