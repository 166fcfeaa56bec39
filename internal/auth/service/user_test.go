package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserService_GetActiveUser(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")

	u, err := h.users.GetActiveUser(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)

	require.NoError(t, h.users.SetActive(ctx, res.User.ID, false))
	_, err = h.users.GetActiveUser(ctx, res.User.ID)
	require.ErrorIs(t, err, ErrAccountInactive)

	// GetUserByID still returns disabled accounts.
	u, err = h.users.GetUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	require.False(t, u.IsActive)

	_, err = h.users.GetActiveUser(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.ErrorIs(t, h.users.SetActive(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", true), ErrUserNotFound)
}
