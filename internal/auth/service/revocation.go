package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
)

type RevocationService struct {
	Store     store.Store
	AccessTTL time.Duration
	// Leeway matches the verifier's clock-skew allowance; entries outlive
	// exp by this much.
	Leeway time.Duration
	Now    func() time.Time
}

// Blacklist records the jti of an access token until the verifier would
// reject it anyway. The token is decoded without verification, so its exp is
// capped at now+AccessTTL. A token that can no longer verify is not recorded.
func (s *RevocationService) Blacklist(ctx context.Context, raw, reason string) error {
	claims, err := jwtx.DecodeUnverified(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}

	now := nowFunc(s.Now)()
	limit := now.Add(s.accessTTL())

	exp := claims.ExpiresAtTime()
	if exp.IsZero() || exp.After(limit) {
		exp = limit
	}
	exp = exp.Add(s.Leeway)
	if !exp.After(now) {
		return nil
	}

	return s.Store.Blacklist().AddBlacklistEntry(ctx, domain.BlacklistEntry{
		TokenJTI:  claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: exp.UTC(),
		Reason:    reason,
		CreatedAt: now,
	})
}

// Revoke marks the record for a raw refresh token revoked. It reports
// whether this call changed anything; unknown or already revoked tokens
// are not an error.
func (s *RevocationService) Revoke(ctx context.Context, rawRefresh string) (bool, error) {
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(rawRefresh), nowFunc(s.Now)())
}

// RevokeAll revokes every live refresh token of userID.
func (s *RevocationService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID, nowFunc(s.Now)())
}

func (s *RevocationService) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.Store.Blacklist().IsBlacklisted(ctx, jti, nowFunc(s.Now)())
}

func (s *RevocationService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}
