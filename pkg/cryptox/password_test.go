package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(t)

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
		{"exactly 72 bytes", strings.Repeat("a", MaxPasswordBytes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$2a$"), "bcrypt hash expected, got %q", hash)

			require.NoError(t, h.Verify(tt.password, hash))
			require.ErrorIs(t, h.Verify(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher(t)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestPasswordTooLong(t *testing.T) {
	h := testHasher(t)
	long := strings.Repeat("a", MaxPasswordBytes+1)

	_, err := h.Hash(long)
	require.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	require.ErrorIs(t, h.Verify(long, hash), ErrPasswordMismatch)
}

func TestVerifyMalformedHash(t *testing.T) {
	h := testHasher(t)

	err := h.Verify("password", "not-a-bcrypt-hash")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestNewPasswordHasherRejectsBadCost(t *testing.T) {
	for _, cost := range []int{0, bcrypt.MinCost - 1, bcrypt.MaxCost + 1} {
		_, err := NewPasswordHasher(cost)
		require.ErrorIs(t, err, ErrInvalidCost)
	}
}

func TestZeroValueUsesDefaultCost(t *testing.T) {
	var h *PasswordHasher
	require.Equal(t, DefaultBcryptCost, h.cost())
	require.Equal(t, DefaultBcryptCost, (&PasswordHasher{}).cost())
}

func TestNeedsRehash(t *testing.T) {
	low := testHasher(t)
	hash, err := low.Hash("password")
	require.NoError(t, err)

	require.False(t, low.NeedsRehash(hash))
	require.True(t, (&PasswordHasher{Cost: bcrypt.MinCost + 1}).NeedsRehash(hash))
	require.False(t, low.NeedsRehash("garbage"))
}

func TestDummyHash(t *testing.T) {
	h := testHasher(t)

	dummy, err := h.DummyHash()
	require.NoError(t, err)
	require.ErrorIs(t, h.Verify("anything", dummy), ErrPasswordMismatch)
}
