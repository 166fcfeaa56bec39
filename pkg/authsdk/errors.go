package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/pantry/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	CodeMissingFields       = "MISSING_FIELDS"
	CodeInvalidEmail        = "INVALID_EMAIL"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeInvalidName         = "INVALID_NAME"
	CodeMissingCredentials  = "MISSING_CREDENTIALS"
	CodeMissingRefreshToken = "MISSING_REFRESH_TOKEN"
	CodeInvalidJSON         = "INVALID_JSON"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNoToken            = "NO_TOKEN"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"

	CodeAccountInactive = "ACCOUNT_INACTIVE"
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeAccountLocked   = "ACCOUNT_LOCKED"

	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is a failure envelope. The server writes it with WriteError and
// the client decodes responses back into it, so both sides share one
// catalogue. Two APIErrors match under errors.Is when their codes match.
type APIError struct {
	StatusCode int           `json:"-"`
	Label      string        `json:"error"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Details    *ErrorDetails `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy with a different message.
func (e *APIError) WithMessage(msg string) *APIError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetails returns a copy carrying d.
func (e *APIError) WithDetails(d *ErrorDetails) *APIError {
	cp := *e
	cp.Details = d
	return &cp
}

// WriteError writes the failure envelope.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, Envelope{
		Success: false,
		Error:   e.Label,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

func newAPIError(status int, label, code, message string) *APIError {
	return &APIError{StatusCode: status, Label: label, Code: code, Message: message}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrMissingFields = newAPIError(http.StatusBadRequest, "Validation failed", CodeMissingFields,
		"email, password and fullName are required")
	ErrInvalidEmail = newAPIError(http.StatusBadRequest, "Validation failed", CodeInvalidEmail,
		"email address is not valid")
	ErrWeakPassword = newAPIError(http.StatusBadRequest, "Validation failed", CodeWeakPassword,
		"password does not meet the password policy")
	ErrInvalidName = newAPIError(http.StatusBadRequest, "Validation failed", CodeInvalidName,
		"fullName is not valid")
	ErrMissingCredentials = newAPIError(http.StatusBadRequest, "Validation failed", CodeMissingCredentials,
		"email and password are required")
	ErrMissingRefreshToken = newAPIError(http.StatusBadRequest, "Validation failed", CodeMissingRefreshToken,
		"refreshToken is required")
	ErrInvalidJSON = newAPIError(http.StatusBadRequest, "Bad request", CodeInvalidJSON,
		"request body is not valid JSON")

	ErrInvalidCredentials = newAPIError(http.StatusUnauthorized, "Authentication failed", CodeInvalidCredentials,
		"invalid email or password")
	ErrTokenExpired = newAPIError(http.StatusUnauthorized, "Authentication failed", CodeTokenExpired,
		"token has expired")
	ErrTokenRevoked = newAPIError(http.StatusUnauthorized, "Authentication failed", CodeTokenRevoked,
		"token has been revoked")
	ErrInvalidToken = newAPIError(http.StatusUnauthorized, "Authentication failed", CodeInvalidToken,
		"token is invalid")
	ErrNoToken = newAPIError(http.StatusUnauthorized, "Authentication failed", CodeNoToken,
		"no bearer token provided")
	ErrAuthRequired = newAPIError(http.StatusUnauthorized, "Authentication required", CodeAuthRequired,
		"authentication is required")
	ErrUserNotFound = newAPIError(http.StatusUnauthorized, "Authentication failed", CodeUserNotFound,
		"user no longer exists")

	ErrAccountInactive = newAPIError(http.StatusForbidden, "Account inactive", CodeAccountInactive,
		"account is deactivated")
	ErrEmailExists = newAPIError(http.StatusConflict, "Conflict", CodeEmailExists,
		"an account with this email already exists")
	ErrAccountLocked = newAPIError(http.StatusLocked, "Account locked", CodeAccountLocked,
		"too many failed login attempts, try again later")

	ErrInternal = newAPIError(http.StatusInternalServerError, "Internal error", CodeInternalError,
		"an unexpected error occurred")
	ErrServiceUnavailable = newAPIError(http.StatusServiceUnavailable, "Service unavailable", CodeServiceUnavailable,
		"the service is temporarily unavailable")
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not an envelope become a generic error for the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Label:      env.Error,
			Code:       env.Code,
			Message:    env.Message,
			Details:    env.Details,
		}
	}

	code := CodeInternalError
	if resp.StatusCode == http.StatusServiceUnavailable {
		code = CodeServiceUnavailable
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Label:      http.StatusText(resp.StatusCode),
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
