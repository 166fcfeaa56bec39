package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, full_name, password_hash, is_active, is_verified,
	failed_login_attempts, locked_until, last_login, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.IsActive,
		u.IsVerified,
		u.FailedLoginAttempts,
		mapOptionalTime(u.LockedUntil),
		mapOptionalTime(u.LastLogin),
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) RecordFailedLogin(
	ctx context.Context,
	userID string,
	threshold int,
	lockUntil, now time.Time,
) (int, *time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			failed_login_attempts = CASE
				WHEN locked_until IS NOT NULL AND locked_until <= $1 THEN 1
				ELSE failed_login_attempts + 1
			END,
			locked_until = CASE
				WHEN locked_until IS NOT NULL AND locked_until > $1 THEN locked_until
				WHEN (CASE
					WHEN locked_until IS NOT NULL AND locked_until <= $1 THEN 1
					ELSE failed_login_attempts + 1
				END) >= $2 THEN $3
				ELSE NULL
			END,
			updated_at = $1
		WHERE id = $4
		RETURNING failed_login_attempts, locked_until`,
		now.UTC(), threshold, lockUntil.UTC(), userID,
	)

	var (
		attempts int
		locked   sql.NullTime
	)
	if err := row.Scan(&attempts, &locked); err != nil {
		return 0, nil, mapNotFound(err)
	}
	return attempts, mapNullTime(locked), nil
}

func (r *usersRepo) RecordSuccessfulLogin(ctx context.Context, userID string, now time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login = $1, updated_at = $1
		WHERE id = $2`,
		now.UTC(), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, now.UTC(), userID,
	)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool, now time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, now.UTC(), userID,
	)
}

func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		locked, last sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsVerified,
		&u.FailedLoginAttempts,
		&locked,
		&last,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.LockedUntil = mapNullTime(locked)
	u.LastLogin = mapNullTime(last)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
