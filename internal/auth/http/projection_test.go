package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestClientMetadata(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	r.RemoteAddr = "198.51.100.4:5123"
	r.Header.Set("User-Agent", strings.Repeat("x", 300))
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	meta := clientMetadata(r, false)
	require.Equal(t, "198.51.100.4", meta.IPAddress)
	require.Len(t, meta.DeviceInfo, maxDeviceInfo)

	meta = clientMetadata(r, true)
	require.Equal(t, "203.0.113.9", meta.IPAddress)

	// "é" is two bytes and would straddle the limit.
	r.Header.Set("User-Agent", strings.Repeat("a", 254)+"é")
	meta = clientMetadata(r, false)
	require.True(t, utf8.ValidString(meta.DeviceInfo))
	require.LessOrEqual(t, len(meta.DeviceInfo), maxDeviceInfo)
	require.Equal(t, strings.Repeat("a", 254), meta.DeviceInfo)

	r.Header.Set("User-Agent", "Mozilla/5.0 (Ünïcode)")
	meta = clientMetadata(r, false)
	require.Equal(t, "Mozilla/5.0 (Ünïcode)", meta.DeviceInfo)
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	until := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		err  error
		want *authsdk.APIError
	}{
		{"credentials", &service.CredentialsError{Remaining: 2}, authsdk.ErrInvalidCredentials},
		{"unknown email", &service.CredentialsError{Remaining: -1}, authsdk.ErrInvalidCredentials},
		{"locked", &service.LockedError{Until: until}, authsdk.ErrAccountLocked},
		{"weak password", &service.ValidationError{Kind: service.ValidationWeakPassword}, authsdk.ErrWeakPassword},
		{"missing", &service.ValidationError{Kind: service.ValidationMissingFields}, authsdk.ErrMissingFields},
		{"wrong type", service.ErrWrongTokenType, authsdk.ErrInvalidToken},
		{"wrapped expired", fmt.Errorf("verify: %w", service.ErrTokenExpired), authsdk.ErrTokenExpired},
		{"revoked", service.ErrTokenRevoked, authsdk.ErrTokenRevoked},
		{"inactive", service.ErrAccountInactive, authsdk.ErrAccountInactive},
		{"user gone", service.ErrUserNotFound, authsdk.ErrUserNotFound},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), authsdk.ErrServiceUnavailable},
		{"unknown", errors.New("disk on fire"), authsdk.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAPIError(tt.err)
			require.ErrorIs(t, got, tt.want)
			require.Equal(t, tt.want.StatusCode, got.StatusCode)
		})
	}

	got := toAPIError(&service.LockedError{Until: until})
	require.True(t, got.Details.LockedUntil.Equal(until))

	require.Nil(t, toAPIError(&service.CredentialsError{Remaining: 2}).Details)
	require.Equal(t,
		toAPIError(&service.CredentialsError{Remaining: -1}),
		toAPIError(&service.CredentialsError{Remaining: 4}),
	)
}
