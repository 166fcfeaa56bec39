package sqlite

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
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.IsActive,
		u.IsVerified,
		u.FailedLoginAttempts,
		mapOptionalMillis(u.LockedUntil),
		mapOptionalMillis(u.LastLogin),
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) RecordFailedLogin(
	ctx context.Context,
	userID string,
	threshold int,
	lockUntil, now time.Time,
) (int, *time.Time, error) {
	n := toMillis(now)

	// The attempt count expression is repeated in the lock branch because
	// SET expressions all see the pre-update row.
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			failed_login_attempts = CASE
				WHEN locked_until IS NOT NULL AND locked_until <= ? THEN 1
				ELSE failed_login_attempts + 1
			END,
			locked_until = CASE
				WHEN locked_until IS NOT NULL AND locked_until > ? THEN locked_until
				WHEN (CASE
					WHEN locked_until IS NOT NULL AND locked_until <= ? THEN 1
					ELSE failed_login_attempts + 1
				END) >= ? THEN ?
				ELSE NULL
			END,
			updated_at = ?
		WHERE id = ?
		RETURNING failed_login_attempts, locked_until`,
		n, n, n, threshold, toMillis(lockUntil), n, userID,
	)

	var (
		attempts int
		locked   sql.NullInt64
	)
	if err := row.Scan(&attempts, &locked); err != nil {
		return 0, nil, mapNotFound(err)
	}
	return attempts, mapNullMillis(locked), nil
}

func (r *usersRepo) RecordSuccessfulLogin(ctx context.Context, userID string, now time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login = ?, updated_at = ?
		WHERE id = ?`,
		toMillis(now), toMillis(now), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, toMillis(now), userID,
	)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool, now time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, toMillis(now), userID,
	)
}

// exec runs a single-row UPDATE and reports a missing row as not found.
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
		u                    domain.User
		locked, last         sql.NullInt64
		createdAt, updatedAt int64
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
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.LockedUntil = mapNullMillis(locked)
	u.LastLogin = mapNullMillis(last)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}
