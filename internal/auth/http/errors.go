package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
	"github.com/aussiebroadwan/pantry/pkg/slogx"
)

// writeServiceError renders err as a failure envelope. Anything outside the
// service error set is logged and reported as INTERNAL_ERROR.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "code", apiErr.Code, "err", err)
	}
	apiErr.WriteError(w)
}

func toAPIError(err error) *authsdk.APIError {
	var (
		validationErr *service.ValidationError
		lockedErr     *service.LockedError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationAPIError(validationErr)

	case errors.As(err, &lockedErr):
		until := lockedErr.Until.UTC()
		return authsdk.ErrAccountLocked.WithDetails(&authsdk.ErrorDetails{LockedUntil: &until})

	// Unknown email and wrong password must render identically, so the
	// remaining attempt count never leaves the process.
	case errors.Is(err, service.ErrInvalidCredentials):
		return authsdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrAccountLocked):
		return authsdk.ErrAccountLocked
	case errors.Is(err, service.ErrAccountInactive):
		return authsdk.ErrAccountInactive
	case errors.Is(err, service.ErrEmailExists):
		return authsdk.ErrEmailExists
	case errors.Is(err, service.ErrUserNotFound):
		return authsdk.ErrUserNotFound
	case errors.Is(err, service.ErrTokenExpired):
		return authsdk.ErrTokenExpired
	case errors.Is(err, service.ErrTokenRevoked):
		return authsdk.ErrTokenRevoked
	case errors.Is(err, service.ErrInvalidToken):
		return authsdk.ErrInvalidToken
	case errors.Is(err, service.ErrValidation):
		return authsdk.ErrMissingFields

	case errors.Is(err, context.DeadlineExceeded):
		return authsdk.ErrServiceUnavailable
	default:
		return authsdk.ErrInternal
	}
}

func validationAPIError(err *service.ValidationError) *authsdk.APIError {
	var base *authsdk.APIError
	switch err.Kind {
	case service.ValidationInvalidEmail:
		base = authsdk.ErrInvalidEmail
	case service.ValidationWeakPassword:
		base = authsdk.ErrWeakPassword
	case service.ValidationInvalidName:
		base = authsdk.ErrInvalidName
	default:
		base = authsdk.ErrMissingFields
	}

	if len(err.Violations) == 0 {
		return base
	}
	return base.WithDetails(&authsdk.ErrorDetails{Violations: err.Violations})
}

// writeAuthError is the AuthnMiddleware error writer. A nil err means no
// bearer credential was sent.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}
	writeServiceError(w, r, err)
}
