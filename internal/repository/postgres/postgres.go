package postgres

import (
	"context"
	"database/sql"
	"errors"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same repositories
// serve direct access and unit-of-work transactions.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store aggregates the directly-usable (non-transactional) repositories.
type Store struct {
	db *sql.DB
	repository.InvitationRepository
	repository.UserRepository
	repository.TeamRepository
	repository.OrganizationRepository
	repository.EmailRepository
}

func NewStore(db *sql.DB, clk clock.Clock) *Store {
	return &Store{
		db:                     db,
		InvitationRepository:   NewInvitationRepository(db, clk),
		UserRepository:         NewUserRepository(db, clk),
		TeamRepository:         NewTeamRepository(db, clk),
		OrganizationRepository: NewOrganizationRepository(db, clk),
		EmailRepository:        NewEmailRepository(db, clk),
	}
}

const uniqueViolation = "23505"

// translate maps driver errors to the shared taxonomy so storage details
// never cross the repository boundary.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fault.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fault.ErrEmailAlreadyUsed
	}
	return fault.Unknown(err)
}
