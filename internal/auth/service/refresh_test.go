package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRefreshCoordinator_RotatesAndRevokes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")
	first := res.Tokens.Refresh.Token

	h.clock.Advance(time.Minute)
	r1, err := h.refresh.Rotate(ctx, first, testMeta)
	require.NoError(t, err)
	require.NotNil(t, r1.Tokens.Refresh)
	require.NotEqual(t, first, r1.Tokens.Refresh.Token)
	require.Equal(t, res.User.ID, r1.User.ID)

	h.clock.Advance(time.Minute)
	r2, err := h.refresh.Rotate(ctx, r1.Tokens.Refresh.Token, testMeta)
	require.NoError(t, err)
	require.NotNil(t, r2.Tokens.Refresh)

	_, err = h.refresh.Rotate(ctx, first, testMeta)
	require.ErrorIs(t, err, ErrTokenRevoked)

	_, err = h.refresh.Rotate(ctx, r1.Tokens.Refresh.Token, testMeta)
	require.ErrorIs(t, err, ErrTokenRevoked)

	// The newest token is still good and the access token it came with works.
	_, err = h.verifier.Authenticate(ctx, r2.Tokens.Access.Token)
	require.NoError(t, err)

	rec, err := h.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(first))
	require.NoError(t, err)
	require.True(t, rec.Revoked)
	require.NotNil(t, rec.RevokedAt)
}

func TestRefreshCoordinator_RecordsCallMetadata(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")

	meta := domain.ClientMetadata{DeviceInfo: "pantry-web/2.0", IPAddress: "198.51.100.9"}
	r, err := h.refresh.Rotate(ctx, res.Tokens.Refresh.Token, meta)
	require.NoError(t, err)

	rec, err := h.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(r.Tokens.Refresh.Token))
	require.NoError(t, err)
	require.Equal(t, meta.DeviceInfo, rec.DeviceInfo)
	require.Equal(t, meta.IPAddress, rec.IPAddress)
}

func TestRefreshCoordinator_RotationDisabled(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	h.refresh.RotationEnabled = false
	res := h.register(t, "ada@example.com")

	for range 3 {
		r, err := h.refresh.Rotate(ctx, res.Tokens.Refresh.Token, testMeta)
		require.NoError(t, err)
		require.Nil(t, r.Tokens.Refresh)
		require.NotEmpty(t, r.Tokens.Access.Token)
	}
}

func TestRefreshCoordinator_RejectsAccessToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	res := h.register(t, "ada@example.com")

	_, err := h.refresh.Rotate(context.Background(), res.Tokens.Access.Token, testMeta)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshCoordinator_InactiveUser(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")

	require.NoError(t, h.users.SetActive(ctx, res.User.ID, false))
	_, err := h.refresh.Rotate(ctx, res.Tokens.Refresh.Token, testMeta)
	require.ErrorIs(t, err, ErrAccountInactive)

	// The refused token was not consumed.
	require.NoError(t, h.users.SetActive(ctx, res.User.ID, true))
	_, err = h.refresh.Rotate(ctx, res.Tokens.Refresh.Token, testMeta)
	require.NoError(t, err)
}

func TestRefreshCoordinator_Expired(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	res := h.register(t, "ada@example.com")

	h.clock.Advance(8 * 24 * time.Hour)
	_, err := h.refresh.Rotate(context.Background(), res.Tokens.Refresh.Token, testMeta)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshCoordinator_ConcurrentRotationSingleWinner(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	res := h.register(t, "ada@example.com")

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		revoked int
	)
	start := make(chan struct{})

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := h.refresh.Rotate(context.Background(), res.Tokens.Refresh.Token, testMeta)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrTokenRevoked):
				revoked++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, n-1, revoked)
}
