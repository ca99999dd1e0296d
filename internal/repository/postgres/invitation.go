package postgres

import (
	"context"
	"database/sql"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"

	"github.com/google/uuid"
)

type invitationRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewInvitationRepository(db DBTX, clk clock.Clock) repository.InvitationRepository {
	return &invitationRepository{db: db, clock: clk}
}

const invitationColumns = `id, ref, invitee_email, invitee_sms, invitee_url, inviter_email, inviter_username, team_ref, status, token, created_at, updated_at`

func (r *invitationRepository) Insert(ctx context.Context, inv repository.InvitationForCreate) (*domain.Invitation, error) {
	query := `INSERT INTO invitations (ref, invitee_email, invitee_sms, invitee_url, inviter_email, inviter_username, team_ref, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING ` + invitationColumns
	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		inv.Invitee.Email, inv.Invitee.SMS, inv.Invitee.URL,
		inv.Inviter.Email, inv.Inviter.Username,
		inv.TeamRef,
		domain.InvitationStatusInProgress,
		r.clock.Now(),
	)
	created, err := scanInvitation(row)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.ErrInsertFailed
		}
		return nil, err
	}
	return created, nil
}

func (r *invitationRepository) Find(ctx context.Context, ref string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE ref = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, query, ref))
}

func (r *invitationRepository) FindByTeamAndRecipient(ctx context.Context, teamRef, to string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE team_ref = $1 AND invitee_email = $2`
	return scanInvitation(r.db.QueryRowContext(ctx, query, teamRef, to))
}

func (r *invitationRepository) SetToken(ctx context.Context, ref, token string) (*domain.Invitation, error) {
	query := `UPDATE invitations SET token = $1, updated_at = $2 WHERE ref = $3 RETURNING ` + invitationColumns
	return scanInvitation(r.db.QueryRowContext(ctx, query, token, r.clock.Now(), ref))
}

func (r *invitationRepository) SetStatus(ctx context.Context, ref string, status domain.InvitationStatus) (*domain.Invitation, error) {
	query := `UPDATE invitations SET status = $1, updated_at = $2 WHERE ref = $3 RETURNING ` + invitationColumns
	return scanInvitation(r.db.QueryRowContext(ctx, query, status, r.clock.Now(), ref))
}

func (r *invitationRepository) SetInviteeEmail(ctx context.Context, ref, email string) (*domain.Invitation, error) {
	query := `UPDATE invitations SET invitee_email = $1, updated_at = $2 WHERE ref = $3 RETURNING ` + invitationColumns
	return scanInvitation(r.db.QueryRowContext(ctx, query, email, r.clock.Now(), ref))
}

func (r *invitationRepository) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE invitations SET status = $1, updated_at = $2 WHERE status = $3 AND created_at < $4`
	res, err := r.db.ExecContext(ctx, query,
		domain.InvitationStatusExpired, r.clock.Now(), domain.InvitationStatusInProgress, cutoff)
	if err != nil {
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *invitationRepository) Remove(ctx context.Context, ref string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE ref = $1`, ref)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func scanInvitation(row *sql.Row) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.Ref,
		&inv.Invitee.Email, &inv.Invitee.SMS, &inv.Invitee.URL,
		&inv.Inviter.Email, &inv.Inviter.Username,
		&inv.TeamRef, &inv.Status, &inv.Token,
		&inv.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		inv.UpdatedAt = &t
	}
	return inv, nil
}
