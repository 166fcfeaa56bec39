package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/slogx"
)

const (
	DefaultMaxLoginAttempts = 5
	DefaultLockoutDuration  = 15 * time.Minute
)

// CredentialValidator checks an email/password pair and drives the
// failed-attempt lockout.
type CredentialValidator struct {
	Store        store.Store
	Hasher       *cryptox.PasswordHasher
	MaxAttempts  int
	LockDuration time.Duration
	Now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Validate returns the user on success. Failures are *CredentialsError,
// *LockedError or ErrAccountInactive; an unknown email is indistinguishable
// from a wrong password.
func (v *CredentialValidator) Validate(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	user, err := v.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			v.burnComparison(password)
			l.Info("login failed", "reason", "unknown_email")
			return domain.User{}, &CredentialsError{Remaining: -1}
		}
		return domain.User{}, err
	}

	now := nowFunc(v.Now)()

	if user.IsLocked(now) {
		l.Info("login refused", "user_id", user.ID, "reason", "locked")
		return domain.User{}, &LockedError{Until: *user.LockedUntil}
	}

	if !user.IsActive {
		l.Info("login refused", "user_id", user.ID, "reason", "inactive")
		return domain.User{}, ErrAccountInactive
	}

	if err := v.Hasher.Verify(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, err
		}
		return domain.User{}, v.recordFailure(ctx, user, now)
	}

	if err := v.Store.Users().RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now

	v.maybeRehash(ctx, &user, password, now)

	return user, nil
}

func (v *CredentialValidator) recordFailure(ctx context.Context, user domain.User, now time.Time) error {
	limit := v.maxAttempts()
	attempts, lockedUntil, err := v.Store.Users().RecordFailedLogin(
		ctx, user.ID, limit, now.Add(v.lockDuration()), now,
	)
	if err != nil {
		return err
	}

	l := slogx.FromContext(ctx)
	if lockedUntil != nil && lockedUntil.After(now) {
		l.Warn("account locked", "user_id", user.ID, "attempts", attempts, "locked_until", *lockedUntil)
		return &LockedError{Until: *lockedUntil}
	}

	remaining := max(limit-attempts, 0)
	l.Info("login failed", "user_id", user.ID, "reason", "password_mismatch", "attempts", attempts, "remaining", remaining)
	return &CredentialsError{Remaining: remaining}
}

// burnComparison spends one bcrypt comparison so unknown emails take as
// long as known ones.
func (v *CredentialValidator) burnComparison(password string) {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = v.Hasher.DummyHash()
	})
	if v.dummyHash != "" {
		_ = v.Hasher.Verify(password, v.dummyHash)
	}
}

func (v *CredentialValidator) maybeRehash(ctx context.Context, user *domain.User, password string, now time.Time) {
	if !v.Hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	l := slogx.FromContext(ctx)
	hash, err := v.Hasher.Hash(password)
	if err != nil {
		l.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	if err := v.Store.Users().UpdatePasswordHash(ctx, user.ID, hash, now); err != nil {
		l.Warn("password rehash not saved", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
}

func (v *CredentialValidator) maxAttempts() int {
	if v.MaxAttempts <= 0 {
		return DefaultMaxLoginAttempts
	}
	return v.MaxAttempts
}

func (v *CredentialValidator) lockDuration() time.Duration {
	if v.LockDuration <= 0 {
		return DefaultLockoutDuration
	}
	return v.LockDuration
}

func nowFunc(f func() time.Time) func() time.Time {
	if f == nil {
		return time.Now
	}
	return f
}
