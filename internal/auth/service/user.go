package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
)

// UserService owns account lookups and account state changes outside the
// login flow.
type UserService struct {
	Store store.Store
	Now   func() time.Time
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// GetActiveUser is GetUserByID for token holders: a missing user is
// ErrUserNotFound and a disabled one ErrAccountInactive.
func (s *UserService) GetActiveUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if !u.IsActive {
		return domain.User{}, ErrAccountInactive
	}
	return u, nil
}

// SetActive enables or disables an account. A disabled account can no longer
// log in, refresh or pass authentication, even with unexpired tokens.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	err := s.Store.Users().SetActive(ctx, userID, active, nowFunc(s.Now)())
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
