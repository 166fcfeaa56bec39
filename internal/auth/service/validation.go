package service

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxEmailLength = 254
	minNameLength  = 2
	maxNameLength  = 100
)

// RegisterInput is the raw registration request.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// validate checks the input in the order the client is expected to fix it
// and returns the first failing category with all of its violations.
func (in RegisterInput) validate(policy PasswordPolicy) error {
	var missing []string
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email is required")
	}
	if in.Password == "" {
		missing = append(missing, "password is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		missing = append(missing, "fullName is required")
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: ValidationMissingFields, Violations: missing}
	}

	if !validEmail(in.Email) {
		return &ValidationError{Kind: ValidationInvalidEmail, Violations: []string{"email address is not valid"}}
	}

	if v := validateName(in.FullName); len(v) > 0 {
		return &ValidationError{Kind: ValidationInvalidName, Violations: v}
	}

	if v := policy.Validate(in.Password); len(v) > 0 {
		return &ValidationError{Kind: ValidationWeakPassword, Violations: v}
	}

	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}
	_, domain, ok := strings.Cut(email, "@")
	return ok && strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func validateName(name string) []string {
	name = strings.TrimSpace(name)

	var out []string
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		out = append(out, "fullName must be between 2 and 100 characters")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			out = append(out, "fullName must not contain control characters")
			break
		}
	}
	return out
}
