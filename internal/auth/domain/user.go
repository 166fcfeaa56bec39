package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string // normalized, unique
	FullName     string
	PasswordHash string // bcrypt encoded
	IsActive     bool
	IsVerified   bool

	// Lockout state, written only by the login path.
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLogin           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocked reports whether a lockout window is still open at now.
func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Identity returns the projection handed to downstream handlers.
func (u User) Identity() Identity {
	return Identity{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
	}
}

// Identity is the verified caller attached to the request context. Other
// parts of the application scope their data by ID.
type Identity struct {
	ID         string
	Email      string
	FullName   string
	IsVerified bool
	IsActive   bool
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
