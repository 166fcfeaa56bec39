package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestAccountService_RegisterThenLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	res := h.register(t, "  Ada@Example.COM ")
	require.Equal(t, "ada@example.com", res.User.Email)
	require.True(t, res.User.IsActive)
	require.False(t, res.User.IsVerified)
	require.NotEmpty(t, res.Tokens.Access.Token)
	require.NotNil(t, res.Tokens.Refresh)
	require.NotEqual(t, testPassword, res.User.PasswordHash)

	// Pending verification does not block login.
	login, err := h.accounts.Login(ctx, "ada@example.com", testPassword, testMeta)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, login.User.ID)
	require.NotNil(t, login.User.LastLogin)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.register(t, "ada@example.com")

	_, err := h.accounts.Register(context.Background(), RegisterInput{
		Email:    "ADA@example.com",
		Password: testPassword,
		FullName: "Impostor",
	}, testMeta)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestAccountService_RegisterValidatesBeforeWriting(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.accounts.Register(ctx, RegisterInput{
		Email:    "ada@example.com",
		Password: "weak",
		FullName: "Ada",
	}, testMeta)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ValidationWeakPassword, ve.Kind)
	require.Greater(t, len(ve.Violations), 1)

	_, err = h.store.Users().GetUserByEmail(ctx, "ada@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountService_LogoutIsIdempotent(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")

	require.NoError(t, h.accounts.Logout(ctx, res.Tokens.Access.Token, res.Tokens.Refresh.Token))
	require.NoError(t, h.accounts.Logout(ctx, res.Tokens.Access.Token, res.Tokens.Refresh.Token))
	require.NoError(t, h.accounts.Logout(ctx, "garbage", ""))

	_, err := h.verifier.Authenticate(ctx, res.Tokens.Access.Token)
	require.ErrorIs(t, err, ErrTokenRevoked)

	_, err = h.refresh.Rotate(ctx, res.Tokens.Refresh.Token, testMeta)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAccountService_LogoutAll(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")

	var sessions []AuthResult
	for range 2 {
		s, err := h.accounts.Login(ctx, "ada@example.com", testPassword, testMeta)
		require.NoError(t, err)
		sessions = append(sessions, s)
	}

	n, err := h.accounts.LogoutAll(ctx, res.User.ID, sessions[0].Tokens.Access.Token)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	for _, s := range append(sessions, res) {
		_, err := h.refresh.Rotate(ctx, s.Tokens.Refresh.Token, testMeta)
		require.ErrorIs(t, err, ErrTokenRevoked)
	}

	_, err = h.verifier.Authenticate(ctx, sessions[0].Tokens.Access.Token)
	require.ErrorIs(t, err, ErrTokenRevoked)

	// Fresh logins still work afterwards.
	_, err = h.accounts.Login(ctx, "ada@example.com", testPassword, testMeta)
	require.NoError(t, err)
}
