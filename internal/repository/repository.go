package repository

import (
	"context"
	"errors"
	"time"

	"enapm-backend/internal/domain"
)

// ErrRollback may be returned from a Transaction closure to force a rollback
// without surfacing an error to the caller.
var ErrRollback = errors.New("rollback requested")

// InvitationForCreate is the insertable shape of an invitation. Status,
// ref and timestamps are assigned by the repository.
type InvitationForCreate struct {
	Invitee domain.Invitee
	Inviter domain.Inviter
	TeamRef *string
}

// Repositories return fault.ErrNotFound for missing refs and
// fault.ErrInsertFailed for failed inserts. Unexpected storage errors are
// wrapped into fault kind UNKNOWN_ERROR rather than leaking driver types.
// All lookups key by the opaque external ref, never by the internal id.

type InvitationRepository interface {
	Insert(ctx context.Context, inv InvitationForCreate) (*domain.Invitation, error)
	Find(ctx context.Context, ref string) (*domain.Invitation, error)
	FindByTeamAndRecipient(ctx context.Context, teamRef, to string) (*domain.Invitation, error)
	SetToken(ctx context.Context, ref, token string) (*domain.Invitation, error)
	SetStatus(ctx context.Context, ref string, status domain.InvitationStatus) (*domain.Invitation, error)
	SetInviteeEmail(ctx context.Context, ref, email string) (*domain.Invitation, error)
	// MarkExpiredBefore moves in-progress invitations created before cutoff
	// to Expired and reports how many rows changed.
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Remove(ctx context.Context, ref string) error
}

type UserForInsert struct {
	Ref          string
	Email        string
	Username     string
	PasswordHash string
}

type UserRepository interface {
	// Insert returns fault.ErrEmailAlreadyUsed on a unique-email conflict.
	Insert(ctx context.Context, user UserForInsert) (*domain.User, error)
	Find(ctx context.Context, ref string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Remove(ctx context.Context, ref string) error
}

type TeamForInsert struct {
	Title  string
	OrgRef *string
}

type TeamRepository interface {
	Insert(ctx context.Context, team TeamForInsert) (*domain.Team, error)
	Find(ctx context.Context, ref string) (*domain.Team, error)
	Update(ctx context.Context, ref, title string) (*domain.Team, error)
	Remove(ctx context.Context, ref string) error
}

type OrganizationRepository interface {
	Insert(ctx context.Context, title string) (*domain.Organization, error)
	Find(ctx context.Context, ref string) (*domain.Organization, error)
	Update(ctx context.Context, ref, title string) (*domain.Organization, error)
	Remove(ctx context.Context, ref string) error
}

// EmailForInsert is the insertable shape of a send audit record.
type EmailForInsert struct {
	ExternalID string
	To         string
	From       string
	Sender     string
}

type EmailRepository interface {
	Save(ctx context.Context, email EmailForInsert) (*domain.Email, error)
	Find(ctx context.Context, ref string) (*domain.Email, error)
}

// Tx bundles repositories bound to one underlying transaction. Instances are
// built lazily, one per repository type per transaction.
type Tx interface {
	Invitations() InvitationRepository
	Users() UserRepository
	Teams() TeamRepository
	Organizations() OrganizationRepository
	Emails() EmailRepository
}

// UnitOfWork runs fn against a transaction-scoped repository bundle. A nil
// return commits; any error rolls back. ErrRollback rolls back and is then
// swallowed.
type UnitOfWork interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}
