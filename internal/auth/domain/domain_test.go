package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM \n"))
}

func TestUserIsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	require.False(t, User{}.IsLocked(now))
	require.True(t, User{LockedUntil: &future}.IsLocked(now))
	require.False(t, User{LockedUntil: &past}.IsLocked(now))
}

func TestRefreshTokenUsable(t *testing.T) {
	now := time.Now()

	require.True(t, RefreshToken{ExpiresAt: now.Add(time.Hour)}.Usable(now))
	require.False(t, RefreshToken{ExpiresAt: now.Add(time.Hour), Revoked: true}.Usable(now))
	require.False(t, RefreshToken{ExpiresAt: now}.Usable(now))
}

func TestIdentityProjection(t *testing.T) {
	u := User{ID: "1", Email: "a@b.c", FullName: "A B", IsVerified: true, IsActive: true, PasswordHash: "secret"}
	require.Equal(t, Identity{ID: "1", Email: "a@b.c", FullName: "A B", IsVerified: true, IsActive: true}, u.Identity())
}
