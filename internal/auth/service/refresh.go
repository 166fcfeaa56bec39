package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
	"github.com/aussiebroadwan/pantry/pkg/slogx"
)

// RefreshCoordinator exchanges a refresh token for a new access token and,
// when rotation is on, a replacement refresh token.
type RefreshCoordinator struct {
	Store           store.Store
	Verifier        *TokenVerifier
	Issuer          *TokenIssuer
	Users           *UserService
	RotationEnabled bool
	Now             func() time.Time
}

type RefreshResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// Rotate runs verify, load user, issue access, then (with rotation) revoke
// and reissue inside one transaction holding the consumed record's lock.
// A token that lost a concurrent rotation fails with ErrTokenRevoked.
func (c *RefreshCoordinator) Rotate(ctx context.Context, raw string, meta domain.ClientMetadata) (RefreshResult, error) {
	claims, err := c.Verifier.Verify(ctx, raw, jwtx.TokenTypeRefresh)
	if err != nil {
		return RefreshResult{}, err
	}

	user, err := c.Users.GetActiveUser(ctx, claims.UserID)
	if err != nil {
		return RefreshResult{}, err
	}

	access, err := c.Issuer.IssueAccessToken(user)
	if err != nil {
		return RefreshResult{}, err
	}

	res := RefreshResult{
		User:   user,
		Tokens: domain.TokenPair{Access: access},
	}
	if !c.RotationEnabled {
		return res, nil
	}

	hash := cryptox.FingerprintToken(raw)
	now := nowFunc(c.Now)()

	err = c.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RefreshTokens().LockRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if err := checkRefreshRecord(rec, claims, now); err != nil {
			return err
		}

		revoked, err := tx.RefreshTokens().RevokeRefreshToken(ctx, hash, now)
		if err != nil {
			return err
		}
		if !revoked {
			return ErrTokenRevoked
		}

		next, err := c.Issuer.IssueRefreshTokenTx(ctx, tx, user, meta)
		if err != nil {
			return err
		}
		res.Tokens.Refresh = &next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			slogx.FromContext(ctx).Warn("revoked refresh token presented", "user_id", user.ID)
		}
		return RefreshResult{}, err
	}

	return res, nil
}
