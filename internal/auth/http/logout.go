package http

import (
	"net/http"

	"github.com/aussiebroadwan/pantry/pkg/authsdk"
	"github.com/aussiebroadwan/pantry/pkg/httpx"
)

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Blacklists the bearer access token and revokes the refresh token when one is given.
//	@Description	Idempotent: repeating the call, or sending an expired or unreadable token, still succeeds.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LogoutRequest	false	"refreshToken"
//	@Success		200		{object}	authsdk.Envelope
//	@Failure		401		{object}	authsdk.Envelope	"NO_TOKEN"
//	@Router			/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	access, ok := httpx.BearerToken(r)
	if !ok {
		authsdk.ErrNoToken.WriteError(w)
		return
	}

	var req authsdk.LogoutRequest
	if !decode(w, r, &req, true) {
		return
	}

	if err := h.Accounts.Logout(r.Context(), access, req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, nil, "Logged out")
}

// HandleLogoutAll godoc
//
//	@Summary		Log out everywhere
//	@Description	Revokes every refresh token of the caller and blacklists the access token used for the call.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.LogoutAllResponse}
//	@Failure		401	{object}	authsdk.Envelope	"AUTH_REQUIRED, TOKEN_EXPIRED, TOKEN_REVOKED, INVALID_TOKEN"
//	@Router			/auth/logout-all [post].
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.Accounts.LogoutAll(ctx, httpx.UserIDFromContext(ctx), httpx.BearerTokenFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, authsdk.LogoutAllResponse{RevokedSessions: n}, "All sessions revoked")
}
