package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID      ctxKey = "user_id"
	CtxKeyIdentity    ctxKey = "identity"
	CtxKeyClaims      ctxKey = "claims"
	CtxKeyBearerToken ctxKey = "bearer_token"
)

// UserIDFromContext returns the authenticated user id, or "" when the request
// did not pass through AuthnMiddleware.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyUserID).(string)
	return v
}

// BearerTokenFromContext returns the raw token AuthnMiddleware accepted.
func BearerTokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyBearerToken).(string)
	return v
}
