package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pantry/pkg/authsdk"
)

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for a token pair.
//	@Description	Five consecutive failures lock the account for the lockout window; the sixth attempt fails with ACCOUNT_LOCKED even with the right password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"email, password"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.AuthResponse}
//	@Failure		400		{object}	authsdk.Envelope	"MISSING_CREDENTIALS, INVALID_JSON"
//	@Failure		401		{object}	authsdk.Envelope	"INVALID_CREDENTIALS"
//	@Failure		403		{object}	authsdk.Envelope	"ACCOUNT_INACTIVE"
//	@Failure		423		{object}	authsdk.Envelope	"ACCOUNT_LOCKED, details.lockedUntil"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decode(w, r, &req, false) {
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		authsdk.ErrMissingCredentials.WriteError(w)
		return
	}

	res, err := h.Accounts.Login(r.Context(), req.Email, req.Password, clientMetadata(r, h.TrustProxyHeaders))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, authsdk.AuthResponse{
		User:   userResponse(res.User),
		Tokens: tokensResponse(res.Tokens, h.Issuer.AccessTokenTTL()),
	}, "Login successful")
}
