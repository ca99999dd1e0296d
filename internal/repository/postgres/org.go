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

type organizationRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewOrganizationRepository(db DBTX, clk clock.Clock) repository.OrganizationRepository {
	return &organizationRepository{db: db, clock: clk}
}

const orgColumns = `id, ref, title, created_at`

func (r *organizationRepository) Insert(ctx context.Context, title string) (*domain.Organization, error) {
	query := `INSERT INTO organizations (ref, title, created_at) VALUES ($1, $2, $3) RETURNING ` + orgColumns
	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), title, r.clock.Now())
	created, err := scanOrganization(row)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.ErrInsertFailed
		}
		return nil, err
	}
	return created, nil
}

func (r *organizationRepository) Find(ctx context.Context, ref string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE ref = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, query, ref))
}

func (r *organizationRepository) Update(ctx context.Context, ref, title string) (*domain.Organization, error) {
	query := `UPDATE organizations SET title = $1 WHERE ref = $2 RETURNING ` + orgColumns
	return scanOrganization(r.db.QueryRowContext(ctx, query, title, ref))
}

func (r *organizationRepository) Remove(ctx context.Context, ref string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE ref = $1`, ref)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func scanOrganization(row *sql.Row) (*domain.Organization, error) {
	o := &domain.Organization{}
	err := row.Scan(&o.ID, &o.Ref, &o.Title, &o.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return o, nil
}
