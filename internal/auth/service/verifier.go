package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/httpx"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
	"github.com/aussiebroadwan/pantry/pkg/slogx"
)

// TokenVerifier checks presented tokens. Signature and claims are checked
// by the JWT verifier; refresh tokens are then cross-checked against their
// stored record and access tokens against the blacklist.
type TokenVerifier struct {
	Store store.Store
	JWT   jwtx.Verifier
	Users *UserService
	Now   func() time.Time
}

// Verify returns the claims of raw if it is a valid token of the expected
// type. Failures are ErrTokenExpired, ErrTokenRevoked, ErrWrongTokenType or
// ErrInvalidToken.
func (v *TokenVerifier) Verify(ctx context.Context, raw string, expected jwtx.TokenType) (jwtx.Claims, error) {
	claims, err := v.JWT.Verify(raw)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, ErrTokenExpired
		}
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Type != expected {
		return jwtx.Claims{}, ErrWrongTokenType
	}

	if expected == jwtx.TokenTypeRefresh {
		rec, err := v.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(raw))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return jwtx.Claims{}, ErrInvalidToken
			}
			return jwtx.Claims{}, err
		}
		if err := checkRefreshRecord(rec, claims, nowFunc(v.Now)()); err != nil {
			return jwtx.Claims{}, err
		}
	}

	return claims, nil
}

// checkRefreshRecord applies the stored-record rules. The stored expiry is
// checked without leeway.
func checkRefreshRecord(rec domain.RefreshToken, claims jwtx.Claims, now time.Time) error {
	if rec.UserID != claims.UserID {
		return ErrInvalidToken
	}
	if !now.Before(rec.ExpiresAt) {
		return ErrTokenExpired
	}
	if rec.Revoked {
		return ErrTokenRevoked
	}
	return nil
}

// Authenticate implements httpx.Authenticator for access tokens. The user is
// re-read on every call so deactivation takes effect before token expiry.
func (v *TokenVerifier) Authenticate(ctx context.Context, raw string) (context.Context, error) {
	claims, err := v.Verify(ctx, raw, jwtx.TokenTypeAccess)
	if err != nil {
		return ctx, err
	}

	blacklisted, err := v.Store.Blacklist().IsBlacklisted(ctx, claims.ID, nowFunc(v.Now)())
	if err != nil {
		return ctx, err
	}
	if blacklisted {
		return ctx, ErrTokenRevoked
	}

	user, err := v.Users.GetActiveUser(ctx, claims.UserID)
	if err != nil {
		return ctx, err
	}

	ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
	ctx = context.WithValue(ctx, httpx.CtxKeyIdentity, user.Identity())
	ctx = context.WithValue(ctx, httpx.CtxKeyClaims, claims)
	ctx = context.WithValue(ctx, ctxKeyUser{}, user)
	ctx = slogx.WithUserID(ctx, user.ID)

	return ctx, nil
}

type ctxKeyUser struct{}

// IdentityFromContext returns the identity Authenticate attached.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(httpx.CtxKeyIdentity).(domain.Identity)
	return id, ok
}

// ClaimsFromContext returns the verified access token claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// UserFromContext returns the user row Authenticate loaded.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser{}).(domain.User)
	return u, ok
}
