package http

import (
	"net/http"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
)

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns the user with its first token pair.
//	@Description	Validation failures report every broken password rule in details.violations.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"email, password, fullName"
//	@Success		201		{object}	authsdk.Envelope{data=authsdk.AuthResponse}
//	@Failure		400		{object}	authsdk.Envelope	"MISSING_FIELDS, INVALID_EMAIL, WEAK_PASSWORD, INVALID_NAME, INVALID_JSON"
//	@Failure		409		{object}	authsdk.Envelope	"EMAIL_EXISTS"
//	@Failure		500		{object}	authsdk.Envelope	"INTERNAL_ERROR"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decode(w, r, &req, false) {
		return
	}

	res, err := h.Accounts.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}, clientMetadata(r, h.TrustProxyHeaders))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, authsdk.AuthResponse{
		User:   userResponse(res.User),
		Tokens: tokensResponse(res.Tokens, h.Issuer.AccessTokenTTL()),
	}, "Registration successful")
}
