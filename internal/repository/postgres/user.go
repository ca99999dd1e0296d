package postgres

import (
	"context"
	"database/sql"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"
)

type userRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewUserRepository(db DBTX, clk clock.Clock) repository.UserRepository {
	return &userRepository{db: db, clock: clk}
}

const userColumns = `id, ref, email, username, password_hash, created_at`

func (r *userRepository) Insert(ctx context.Context, user repository.UserForInsert) (*domain.User, error) {
	query := `INSERT INTO users (ref, email, username, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, query, user.Ref, user.Email, user.Username, user.PasswordHash, r.clock.Now())
	created, err := scanUser(row)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.ErrInsertFailed
		}
		return nil, err
	}
	return created, nil
}

func (r *userRepository) Find(ctx context.Context, ref string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ref = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, ref))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Remove(ctx context.Context, ref string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE ref = $1`, ref)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Ref, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}
