package http

import (
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
	"github.com/aussiebroadwan/pantry/pkg/httpx"
)

// maxDeviceInfo matches the device_info column width.
const maxDeviceInfo = 255

func userResponse(u domain.User) authsdk.User {
	return authsdk.User{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt.UTC(),
	}
}

func userSummary(u domain.User) authsdk.UserSummary {
	return authsdk.UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

func tokensResponse(pair domain.TokenPair, accessTTL time.Duration) authsdk.Tokens {
	t := authsdk.Tokens{
		AccessToken: pair.Access.Token,
		ExpiresIn:   int(accessTTL / time.Second),
		TokenType:   "Bearer",
	}
	if pair.Refresh != nil {
		t.RefreshToken = pair.Refresh.Token
	}
	return t
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	httpx.WriteJSON(w, status, authsdk.Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// clientMetadata describes the caller for a new refresh token record.
// X-Forwarded-For is honoured only when the service sits behind a trusted
// proxy.
func clientMetadata(r *http.Request, trustProxy bool) domain.ClientMetadata {
	return domain.ClientMetadata{
		DeviceInfo: truncateUTF8(r.UserAgent(), maxDeviceInfo),
		IPAddress:  clientIP(r, trustProxy),
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
