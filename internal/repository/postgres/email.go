package postgres

import (
	"context"
	"database/sql"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"

	"github.com/google/uuid"
)

type emailRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewEmailRepository(db DBTX, clk clock.Clock) repository.EmailRepository {
	return &emailRepository{db: db, clock: clk}
}

const emailColumns = `id, ref, external_id, to_address, from_address, sender, created_at`

func (r *emailRepository) Save(ctx context.Context, email repository.EmailForInsert) (*domain.Email, error) {
	query := `INSERT INTO emails (ref, external_id, to_address, from_address, sender, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING ` + emailColumns
	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), email.ExternalID, email.To, email.From, email.Sender, r.clock.Now())
	saved, err := scanEmail(row)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.ErrInsertFailed
		}
		return nil, err
	}
	return saved, nil
}

func (r *emailRepository) Find(ctx context.Context, ref string) (*domain.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE ref = $1`
	return scanEmail(r.db.QueryRowContext(ctx, query, ref))
}

func scanEmail(row *sql.Row) (*domain.Email, error) {
	e := &domain.Email{}
	err := row.Scan(&e.ID, &e.Ref, &e.ExternalID, &e.To, &e.From, &e.Sender, &e.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}
