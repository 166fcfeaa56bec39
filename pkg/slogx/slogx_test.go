package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestBuildStampsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := build(Config{Service: "pantry-auth", Version: "v1", Env: "test", Level: "debug", Output: &buf})

	logger.Debug("hello", "k", "v")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "pantry-auth", lines[0]["service"])
	require.Equal(t, "v1", lines[0]["version"])
	require.Equal(t, "test", lines[0]["env"])
	require.Equal(t, "v", lines[0]["k"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, parseLevel(in), in)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := build(Config{Service: "svc", Output: &buf})

	var sawLogger bool
	h := HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = FromContext(r.Context()) != slog.Default()
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		require.True(t, sawLogger)
		require.NotEmpty(t, rec.Header().Get(RequestIDHeader))

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		require.Equal(t, "http_request", lines[0]["msg"])
		require.Equal(t, float64(http.StatusTeapot), lines[0]["status"], "first status wins")
		require.Equal(t, "/auth/me", lines[0]["path"])
	})

	t.Run("propagates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "req-123")
		h.ServeHTTP(rec, r)

		require.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
		require.Equal(t, "req-123", decodeLines(t, &buf)[0]["req_id"])
	})
}

func TestWithUserID(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), build(Config{Output: &buf}))
	ctx = WithUserID(ctx, "user-1")

	FromContext(ctx).Info("x")
	require.Equal(t, "user-1", decodeLines(t, &buf)[0]["user_id"])
}
