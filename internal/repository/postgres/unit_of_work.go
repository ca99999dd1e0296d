package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/repository"
)

type unitOfWork struct {
	db    *sql.DB
	clock clock.Clock
}

func NewUnitOfWork(db *sql.DB, clk clock.Clock) repository.UnitOfWork {
	return &unitOfWork{db: db, clock: clk}
}

func (u *unitOfWork) Transaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	bundle := &txRepositories{tx: sqlTx, clock: u.clock}

	if err := fn(bundle); err != nil {
		_ = sqlTx.Rollback()
		if errors.Is(err, repository.ErrRollback) {
			return nil
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepositories builds each repository on first use and caches it for the
// lifetime of one Transaction call.
type txRepositories struct {
	tx    *sql.Tx
	clock clock.Clock

	invitations   repository.InvitationRepository
	users         repository.UserRepository
	teams         repository.TeamRepository
	organizations repository.OrganizationRepository
	emails        repository.EmailRepository
}

func (t *txRepositories) Invitations() repository.InvitationRepository {
	if t.invitations == nil {
		t.invitations = NewInvitationRepository(t.tx, t.clock)
	}
	return t.invitations
}

func (t *txRepositories) Users() repository.UserRepository {
	if t.users == nil {
		t.users = NewUserRepository(t.tx, t.clock)
	}
	return t.users
}

func (t *txRepositories) Teams() repository.TeamRepository {
	if t.teams == nil {
		t.teams = NewTeamRepository(t.tx, t.clock)
	}
	return t.teams
}

func (t *txRepositories) Organizations() repository.OrganizationRepository {
	if t.organizations == nil {
		t.organizations = NewOrganizationRepository(t.tx, t.clock)
	}
	return t.organizations
}

func (t *txRepositories) Emails() repository.EmailRepository {
	if t.emails == nil {
		t.emails = NewEmailRepository(t.tx, t.clock)
	}
	return t.emails
}
