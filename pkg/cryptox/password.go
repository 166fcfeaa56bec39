package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is 2^12 rounds.
	DefaultBcryptCost = 12

	// MaxPasswordBytes is the longest input bcrypt will hash.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrPasswordTooLong  = errors.New("cryptox: password exceeds 72 bytes")
	ErrInvalidCost      = errors.New("cryptox: bcrypt cost out of range")
)

// PasswordHasher hashes and verifies passwords with bcrypt. The zero value
// uses DefaultBcryptCost.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher returns a hasher for the given bcrypt cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	return &PasswordHasher{Cost: cost}, nil
}

func (h *PasswordHasher) cost() int {
	if h == nil || h.Cost == 0 {
		return DefaultBcryptCost
	}
	return h.Cost
}

// Hash returns the bcrypt encoding of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify compares password against encodedHash in constant time. Any
// mismatch, including an over-long password, returns ErrPasswordMismatch.
func (h *PasswordHasher) Verify(password, encodedHash string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
}

// NeedsRehash reports whether encodedHash was produced with a lower cost than
// the hasher is configured for.
func (h *PasswordHasher) NeedsRehash(encodedHash string) bool {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false
	}
	return cost < h.cost()
}

// DummyHash returns a hash of a random secret at the hasher's cost. Comparing
// against it costs the same as a real comparison, which keeps unknown-account
// logins from answering faster than known ones.
func (h *PasswordHasher) DummyHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out, err := bcrypt.GenerateFromPassword(buf, h.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}
