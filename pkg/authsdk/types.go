package authsdk

import "time"

// ============================================================================
// Envelope
// ============================================================================

// Envelope wraps every /auth response. Successful responses carry Data;
// failures carry Error, Code and Message.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`

	// Error is a short human label, Code the machine-readable reason.
	Error   string        `json:"error,omitempty"`
	Code    string        `json:"code,omitempty"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails holds the structured extras some failures carry.
type ErrorDetails struct {
	// LockedUntil is set on ACCOUNT_LOCKED.
	LockedUntil *time.Time `json:"lockedUntil,omitempty"`

	// Violations lists every failed validation rule.
	Violations []string `json:"violations,omitempty"`
}

// ============================================================================
// Requests
// ============================================================================

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest optionally names the refresh token to revoke alongside the
// access token in the Authorization header.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ============================================================================
// Responses
// ============================================================================

// User is the account projection returned by register, login and /auth/me.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"fullName"`
	IsVerified bool       `json:"isVerified"`
	IsActive   bool       `json:"isActive"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// UserSummary is the minimal projection returned on refresh.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Tokens is the token bundle. RefreshToken is empty when a refresh call did
// not rotate.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expiresIn"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`
}

// AuthResponse is the data of register and login.
type AuthResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// RefreshResponse is the data of /auth/refresh.
type RefreshResponse struct {
	User   UserSummary `json:"user"`
	Tokens Tokens      `json:"tokens"`
}

// MeResponse is the data of /auth/me.
type MeResponse struct {
	User User `json:"user"`
}

// LogoutAllResponse reports how many refresh tokens were revoked.
type LogoutAllResponse struct {
	RevokedSessions int64 `json:"revokedSessions"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of the service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Cache is the blacklist cache status, "disabled" when none is configured.
	// A failing cache degrades latency only and does not fail readiness.
	Cache string `json:"cache"`
}
