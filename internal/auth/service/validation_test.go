package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordPolicy_ReportsEveryViolation(t *testing.T) {
	t.Parallel()

	p := DefaultPasswordPolicy()
	p.RequireSpecial = true

	got := p.Validate("abc")
	require.Equal(t, []string{
		"password must be at least 8 characters",
		"password must contain an uppercase letter",
		"password must contain a digit",
		"password must contain a special character",
	}, got)

	require.Empty(t, p.Validate("Abcdefg1!"))
}

func TestPasswordPolicy_MaxLength(t *testing.T) {
	t.Parallel()

	p := DefaultPasswordPolicy()
	require.Contains(t, p.Validate("Aa1"+strings.Repeat("x", 70)), "password must be at most 72 characters")

	p.MaxLength = 10
	require.Contains(t, p.Validate("Abcdefgh123"), "password must be at most 10 characters")

	// Multibyte runes still count against bcrypt's 72 bytes.
	require.NotEmpty(t, DefaultPasswordPolicy().Validate("Aa1"+strings.Repeat("é", 40)))
}

func TestRegisterInput_Validate(t *testing.T) {
	t.Parallel()

	policy := DefaultPasswordPolicy()

	tests := []struct {
		name string
		in   RegisterInput
		kind ValidationKind
	}{
		{"missing everything", RegisterInput{}, ValidationMissingFields},
		{"missing name", RegisterInput{Email: "a@example.com", Password: testPassword, FullName: "  "}, ValidationMissingFields},
		{"bad email", RegisterInput{Email: "not-an-email", Password: testPassword, FullName: "Ada"}, ValidationInvalidEmail},
		{"display name email", RegisterInput{Email: "Ada <a@example.com>", Password: testPassword, FullName: "Ada"}, ValidationInvalidEmail},
		{"no tld", RegisterInput{Email: "a@localhost", Password: testPassword, FullName: "Ada"}, ValidationInvalidEmail},
		{"short name", RegisterInput{Email: "a@example.com", Password: testPassword, FullName: "A"}, ValidationInvalidName},
		{"control char name", RegisterInput{Email: "a@example.com", Password: testPassword, FullName: "Ada\x00L"}, ValidationInvalidName},
		{"weak password", RegisterInput{Email: "a@example.com", Password: "password", FullName: "Ada"}, ValidationWeakPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.in.validate(policy)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.kind, ve.Kind)
			require.NotEmpty(t, ve.Violations)
		})
	}

	require.NoError(t, RegisterInput{
		Email:    " Ada@Example.com ",
		Password: testPassword,
		FullName: "Ada Lovelace",
	}.validate(policy))
}

func TestRegisterInput_MissingFieldsListsEach(t *testing.T) {
	t.Parallel()

	err := RegisterInput{Password: "x"}.validate(DefaultPasswordPolicy())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, []string{"email is required", "fullName is required"}, ve.Violations)
}
