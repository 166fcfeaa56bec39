package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pantry/pkg/authsdk"
)

// HandleRefresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a refresh token for a new access token. With rotation enabled the response also
//	@Description	carries a replacement refresh token and the presented one is revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"refreshToken"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.RefreshResponse}
//	@Failure		400		{object}	authsdk.Envelope	"MISSING_REFRESH_TOKEN, INVALID_JSON"
//	@Failure		401		{object}	authsdk.Envelope	"TOKEN_EXPIRED, TOKEN_REVOKED, INVALID_TOKEN, USER_NOT_FOUND"
//	@Failure		403		{object}	authsdk.Envelope	"ACCOUNT_INACTIVE"
//	@Router			/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decode(w, r, &req, true) {
		return
	}

	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		authsdk.ErrMissingRefreshToken.WriteError(w)
		return
	}

	res, err := h.Refresh.Rotate(r.Context(), raw, clientMetadata(r, h.TrustProxyHeaders))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, authsdk.RefreshResponse{
		User:   userSummary(res.User),
		Tokens: tokensResponse(res.Tokens, h.Issuer.AccessTokenTTL()),
	}, "Token refreshed")
}
