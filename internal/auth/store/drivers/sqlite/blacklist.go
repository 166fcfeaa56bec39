package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
)

type blacklistRepo struct {
	db dbtx
}

func (r *blacklistRepo) AddBlacklistEntry(ctx context.Context, e domain.BlacklistEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_blacklist (token_jti, user_id, expires_at, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (token_jti) DO NOTHING`,
		e.TokenJTI,
		e.UserID,
		toMillis(e.ExpiresAt),
		e.Reason,
		toMillis(e.CreatedAt),
	)
	return err
}

func (r *blacklistRepo) IsBlacklisted(ctx context.Context, jti string, now time.Time) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM token_blacklist WHERE token_jti = ? AND expires_at > ?
		)`,
		jti, toMillis(now),
	).Scan(&found)
	return found, err
}

func (r *blacklistRepo) DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM token_blacklist WHERE expires_at < ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
