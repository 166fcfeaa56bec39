package service

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/pantry/pkg/cryptox"
)

// PasswordPolicy is applied at registration only.
type PasswordPolicy struct {
	MinLength      int
	MaxLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:    8,
		MaxLength:    cryptox.MaxPasswordBytes,
		RequireUpper: true,
		RequireLower: true,
		RequireDigit: true,
	}
}

// Validate returns a message for every rule password breaks, in a stable
// order. An empty result means the password is acceptable.
func (p PasswordPolicy) Validate(password string) []string {
	var out []string

	n := utf8.RuneCountInString(password)
	if p.MinLength > 0 && n < p.MinLength {
		out = append(out, fmt.Sprintf("password must be at least %d characters", p.MinLength))
	}

	// bcrypt only reads the first 72 bytes, so the byte length is capped too.
	maxLen := p.MaxLength
	if maxLen <= 0 || maxLen > cryptox.MaxPasswordBytes {
		maxLen = cryptox.MaxPasswordBytes
	}
	if n > maxLen || len(password) > cryptox.MaxPasswordBytes {
		out = append(out, fmt.Sprintf("password must be at most %d characters", maxLen))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			special = true
		}
	}

	if p.RequireUpper && !upper {
		out = append(out, "password must contain an uppercase letter")
	}
	if p.RequireLower && !lower {
		out = append(out, "password must contain a lowercase letter")
	}
	if p.RequireDigit && !digit {
		out = append(out, "password must contain a digit")
	}
	if p.RequireSpecial && !special {
		out = append(out, "password must contain a special character")
	}

	return out
}
