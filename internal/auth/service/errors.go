package service

import (
	"errors"
	"fmt"
	"time"
)

// The closed set of outcomes the auth services report. Callers discriminate
// with errors.Is and errors.As; messages are for logs only.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrValidation         = errors.New("validation failed")

	// ErrWrongTokenType is an InvalidToken to callers that only care about
	// the outward code.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)
)

// CredentialsError is a failed password check below the lockout threshold.
// Remaining is -1 when the account is unknown. It is for server logs only
// and is never rendered to clients.
type CredentialsError struct {
	Remaining int
}

func (e *CredentialsError) Error() string {
	if e.Remaining < 0 {
		return ErrInvalidCredentials.Error()
	}
	return fmt.Sprintf("%s: %d attempts remaining", ErrInvalidCredentials, e.Remaining)
}

func (e *CredentialsError) Unwrap() error { return ErrInvalidCredentials }

// LockedError carries the end of the lockout window.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s until %s", ErrAccountLocked, e.Until.UTC().Format(time.RFC3339))
}

func (e *LockedError) Unwrap() error { return ErrAccountLocked }

type ValidationKind string

const (
	ValidationMissingFields ValidationKind = "missing_fields"
	ValidationInvalidEmail  ValidationKind = "invalid_email"
	ValidationWeakPassword  ValidationKind = "weak_password"
	ValidationInvalidName   ValidationKind = "invalid_name"
)

// ValidationError lists every rule an input broke.
type ValidationError struct {
	Kind       ValidationKind
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", ErrValidation, e.Kind, e.Violations)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
