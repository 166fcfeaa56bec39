package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_Sweep(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	res := h.register(t, "ada@example.com")
	require.NoError(t, h.revocation.Blacklist(ctx, res.Tokens.Access.Token, domain.ReasonLogout))

	hk := NewHousekeepingService(h.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Now = h.clock.Now

	report, err := hk.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, report.RefreshTokens)
	require.Zero(t, report.BlacklistEntries)

	h.clock.Advance(8 * 24 * time.Hour)
	report, err = hk.Sweep(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, report.RefreshTokens)
	require.EqualValues(t, 1, report.BlacklistEntries)
}

func TestHousekeeping_StartStop(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	hk := NewHousekeepingService(h.store, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
