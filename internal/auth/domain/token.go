package domain

import "time"

// RefreshToken models the stored refresh token record. The raw token is never
// stored, only its fingerprint and jti.
type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string // base64url SHA-256 of the signed token
	JTI        string
	DeviceInfo string
	IPAddress  string
	ExpiresAt  time.Time
	Revoked    bool
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

// Usable reports whether the record can still be exchanged at now.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// BlacklistEntry marks an access token jti as revoked until it would have
// expired anyway.
type BlacklistEntry struct {
	TokenJTI  string
	UserID    string
	ExpiresAt time.Time
	Reason    string
	CreatedAt time.Time
}

// Blacklist reasons.
const (
	ReasonLogout    = "logout"
	ReasonLogoutAll = "logout_all"
)

// ClientMetadata is recorded alongside each refresh token.
type ClientMetadata struct {
	DeviceInfo string
	IPAddress  string
}

// IssuedToken is a freshly signed token with the values callers need to
// report or record.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// TokenPair is what login, register and refresh hand back. Refresh is nil when
// a refresh call did not rotate.
type TokenPair struct {
	Access  IssuedToken
	Refresh *IssuedToken
}
