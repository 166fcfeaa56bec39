package postgres

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
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token_jti) DO NOTHING`,
		e.TokenJTI, e.UserID, e.ExpiresAt.UTC(), e.Reason, e.CreatedAt.UTC(),
	)
	return err
}

func (r *blacklistRepo) IsBlacklisted(ctx context.Context, jti string, now time.Time) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM token_blacklist WHERE token_jti = $1 AND expires_at > $2
		)`,
		jti, now.UTC(),
	).Scan(&found)
	return found, err
}

func (r *blacklistRepo) DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM token_blacklist WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
