package jwtx

import (
	"slices"
	"time"

	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultLeeway is the clock skew tolerated on exp/nbf/iat.
	DefaultLeeway = 30 * time.Second
)

// TokenType distinguishes access tokens from refresh tokens. Both are signed
// with the same key, so the type claim is what stops one being used as the
// other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Claims is the claim set carried by both token types.
type Claims struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Type   TokenType `json:"type"`

	jwt.RegisteredClaims
}

// NewClaims builds claims for a token of the given type with a fresh jti.
func NewClaims(
	userID, email string,
	typ TokenType,
	ttl time.Duration,
	issuer, audience string,
	now time.Time,
) Claims {
	rc := jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
	if audience != "" {
		rc.Audience = jwt.ClaimStrings{audience}
	}

	return Claims{
		UserID:           userID,
		Email:            email,
		Type:             typ,
		RegisteredClaims: rc,
	}
}

// NewJTI returns 128 random bits as base64url for the "jti" claim.
func NewJTI() string {
	jti, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		// crypto/rand does not return errors on supported platforms.
		panic(err)
	}
	return jti
}

// Validate is called by the jwt parser after the registered claims pass.
func (c Claims) Validate() error {
	if c.UserID == "" || c.ID == "" || !c.Type.Valid() {
		return ErrInvalidClaim
	}
	return nil
}

// ExpiresAtTime returns exp as a time, or the zero time when absent.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAtTime returns iat as a time, or the zero time when absent.
func (c Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// HasAudience reports whether aud contains want.
func (c Claims) HasAudience(want string) bool {
	return slices.Contains(c.Audience, want)
}
