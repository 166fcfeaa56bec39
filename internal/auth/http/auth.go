package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
	"github.com/aussiebroadwan/pantry/pkg/httpx"
)

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
	Refresh  *service.RefreshCoordinator
	Issuer   *service.TokenIssuer

	// TrustProxyHeaders takes the client address from X-Forwarded-For.
	TrustProxyHeaders bool
}

// decode reads a JSON body and writes INVALID_JSON on failure.
func decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	if err := httpx.DecodeJSON(w, r, v, allowEmpty); err != nil {
		if errors.Is(err, httpx.ErrInvalidJSON) {
			authsdk.ErrInvalidJSON.WriteError(w)
			return false
		}
		authsdk.ErrInternal.WriteError(w)
		return false
	}
	return true
}
