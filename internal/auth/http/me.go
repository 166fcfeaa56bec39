package http

import (
	"net/http"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
)

// HandleMe godoc
//
//	@Summary		Current user
//	@Description	Returns the account behind the bearer access token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.MeResponse}
//	@Failure		401	{object}	authsdk.Envelope	"AUTH_REQUIRED, TOKEN_EXPIRED, TOKEN_REVOKED, INVALID_TOKEN, USER_NOT_FOUND"
//	@Failure		403	{object}	authsdk.Envelope	"ACCOUNT_INACTIVE"
//	@Router			/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := service.UserFromContext(r.Context())
	if !ok {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	writeData(w, http.StatusOK, authsdk.MeResponse{User: userResponse(user)}, "")
}
