package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pantry/pkg/slogx"
)

// Authenticator resolves a bearer token into an enriched request context. It
// is expected to set CtxKeyUserID and whatever identity value downstream
// handlers read.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (context.Context, error)
}

// AuthErrorWriter renders an authentication failure. A nil error means the
// header was missing or not a bearer credential.
type AuthErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func AuthnMiddleware(a Authenticator, onError AuthErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				setBearerChallenge(w, "missing bearer token")
				onError(w, r, nil)
				return
			}

			ctx, err := a.Authenticate(ctx, raw)
			if err != nil {
				log.Info("bearer authentication failed", "err", err)
				setBearerChallenge(w, "token verification failed")
				onError(w, r, err)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyBearerToken, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 challenge header for bearer auth.
func setBearerChallenge(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
}
