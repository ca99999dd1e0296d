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

type teamRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewTeamRepository(db DBTX, clk clock.Clock) repository.TeamRepository {
	return &teamRepository{db: db, clock: clk}
}

const teamColumns = `id, ref, title, org_ref, created_at`

func (r *teamRepository) Insert(ctx context.Context, team repository.TeamForInsert) (*domain.Team, error) {
	query := `INSERT INTO teams (ref, title, org_ref, created_at) VALUES ($1, $2, $3, $4) RETURNING ` + teamColumns
	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), team.Title, team.OrgRef, r.clock.Now())
	created, err := scanTeam(row)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.ErrInsertFailed
		}
		return nil, err
	}
	return created, nil
}

func (r *teamRepository) Find(ctx context.Context, ref string) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE ref = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, ref))
}

func (r *teamRepository) Update(ctx context.Context, ref, title string) (*domain.Team, error) {
	query := `UPDATE teams SET title = $1 WHERE ref = $2 RETURNING ` + teamColumns
	return scanTeam(r.db.QueryRowContext(ctx, query, title, ref))
}

func (r *teamRepository) Remove(ctx context.Context, ref string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE ref = $1`, ref)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func scanTeam(row *sql.Row) (*domain.Team, error) {
	t := &domain.Team{}
	err := row.Scan(&t.ID, &t.Ref, &t.Title, &t.OrgRef, &t.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}
