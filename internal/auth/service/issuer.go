package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/idx"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
)

// TokenIssuer mints access and refresh tokens. Refresh tokens are recorded by
// fingerprint; the raw token only ever leaves through the return value.
type TokenIssuer struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func (i *TokenIssuer) IssueAccessToken(u domain.User) (domain.IssuedToken, error) {
	return i.sign(u, jwtx.TokenTypeAccess, i.accessTTL(), nowFunc(i.Now)())
}

func (i *TokenIssuer) IssueRefreshToken(ctx context.Context, u domain.User, meta domain.ClientMetadata) (domain.IssuedToken, error) {
	return i.issueRefresh(ctx, i.Store, u, meta)
}

// IssueRefreshTokenTx records the token inside tx.
func (i *TokenIssuer) IssueRefreshTokenTx(
	ctx context.Context,
	tx store.Tx,
	u domain.User,
	meta domain.ClientMetadata,
) (domain.IssuedToken, error) {
	return i.issueRefresh(ctx, tx, u, meta)
}

func (i *TokenIssuer) issueRefresh(
	ctx context.Context,
	s store.Store,
	u domain.User,
	meta domain.ClientMetadata,
) (domain.IssuedToken, error) {
	now := nowFunc(i.Now)()

	tok, err := i.sign(u, jwtx.TokenTypeRefresh, i.refreshTTL(), now)
	if err != nil {
		return domain.IssuedToken{}, err
	}

	rec := domain.RefreshToken{
		ID:         idx.New().String(),
		UserID:     u.ID,
		TokenHash:  cryptox.FingerprintToken(tok.Token),
		JTI:        tok.JTI,
		DeviceInfo: meta.DeviceInfo,
		IPAddress:  meta.IPAddress,
		ExpiresAt:  tok.ExpiresAt,
		CreatedAt:  now,
	}
	if err := s.RefreshTokens().CreateRefreshToken(ctx, rec); err != nil {
		return domain.IssuedToken{}, err
	}

	return tok, nil
}

func (i *TokenIssuer) sign(u domain.User, typ jwtx.TokenType, ttl time.Duration, now time.Time) (domain.IssuedToken, error) {
	claims := jwtx.NewClaims(u.ID, u.Email, typ, ttl, i.Issuer, i.Audience, now)

	raw, err := i.Signer.Sign(claims)
	if err != nil {
		return domain.IssuedToken{}, err
	}

	// exp as signed, which is truncated to whole seconds.
	return domain.IssuedToken{
		Token:     raw,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAtTime().UTC(),
	}, nil
}

func (i *TokenIssuer) accessTTL() time.Duration {
	if i.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return i.AccessTTL
}

func (i *TokenIssuer) refreshTTL() time.Duration {
	if i.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return i.RefreshTTL
}

// AccessTokenTTL is the lifetime reported to clients as expiresIn.
func (i *TokenIssuer) AccessTokenTTL() time.Duration {
	return i.accessTTL()
}
