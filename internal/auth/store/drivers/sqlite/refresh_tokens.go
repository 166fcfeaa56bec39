package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

const refreshTokenColumns = `id, user_id, token_hash, jti, device_info, ip_address,
	expires_at, revoked, revoked_at, created_at`

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID,
		t.TokenHash,
		t.JTI,
		t.DeviceInfo,
		t.IPAddress,
		toMillis(t.ExpiresAt),
		t.Revoked,
		mapOptionalMillis(t.RevokedAt),
		toMillis(t.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = ?`, hash)
	t, err := scanRefreshToken(row)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

// LockRefreshTokenByHash relies on the transaction having been opened with
// BEGIN IMMEDIATE (see DSN): the database write lock is already held, so a
// plain read is serialised against every other writer.
func (r *refreshTokensRepo) LockRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	return r.GetRefreshTokenByHash(ctx, hash)
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked = 1, revoked_at = ?
		WHERE token_hash = ? AND revoked = 0`,
		toMillis(now), hash,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked = 1, revoked_at = ?
		WHERE user_id = ? AND revoked = 0`,
		toMillis(now), userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRefreshToken(row rowScanner) (domain.RefreshToken, error) {
	var (
		t                    domain.RefreshToken
		revokedAt            sql.NullInt64
		expiresAt, createdAt int64
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.TokenHash,
		&t.JTI,
		&t.DeviceInfo,
		&t.IPAddress,
		&expiresAt,
		&t.Revoked,
		&revokedAt,
		&createdAt,
	)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	t.ExpiresAt = fromMillis(expiresAt)
	t.RevokedAt = mapNullMillis(revokedAt)
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}
