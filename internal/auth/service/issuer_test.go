package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_AccessToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	res := h.register(t, "ada@example.com")

	tok, err := h.issuer.IssueAccessToken(res.User)
	require.NoError(t, err)

	claims, err := jwtx.DecodeUnverified(tok.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, claims.UserID)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, jwtx.TokenTypeAccess, claims.Type)
	require.Equal(t, testIssuer, claims.Issuer)
	require.True(t, claims.HasAudience(testAudience))
	require.Equal(t, tok.JTI, claims.ID)
	require.Len(t, claims.ID, 22)
	require.True(t, claims.IssuedAtTime().Equal(h.clock.Now()))
	require.True(t, tok.ExpiresAt.Equal(h.clock.Now().Add(jwtx.DefaultAccessTokenTTL)))

	// Access tokens leave no server-side record.
	_, err = h.store.RefreshTokens().GetRefreshTokenByHash(context.Background(), cryptox.FingerprintToken(tok.Token))
	require.Error(t, err)
}

func TestTokenIssuer_RefreshTokenIsRecordedByHash(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")

	tok, err := h.issuer.IssueRefreshToken(ctx, res.User, testMeta)
	require.NoError(t, err)

	claims, err := jwtx.DecodeUnverified(tok.Token)
	require.NoError(t, err)
	require.Equal(t, jwtx.TokenTypeRefresh, claims.Type)

	rec, err := h.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(tok.Token))
	require.NoError(t, err)
	require.Equal(t, res.User.ID, rec.UserID)
	require.Equal(t, claims.ID, rec.JTI)
	require.Equal(t, testMeta.DeviceInfo, rec.DeviceInfo)
	require.Equal(t, testMeta.IPAddress, rec.IPAddress)
	require.True(t, rec.ExpiresAt.Equal(claims.ExpiresAtTime()))
	require.True(t, rec.ExpiresAt.Equal(h.clock.Now().Add(jwtx.DefaultRefreshTokenTTL)))
	require.False(t, rec.Revoked)
	require.NotEqual(t, tok.Token, rec.TokenHash)
}

func TestTokenIssuer_UniqueJTIs(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	res := h.register(t, "ada@example.com")

	seen := map[string]bool{}
	for range 50 {
		tok, err := h.issuer.IssueAccessToken(res.User)
		require.NoError(t, err)
		require.False(t, seen[tok.JTI])
		seen[tok.JTI] = true
	}
}
