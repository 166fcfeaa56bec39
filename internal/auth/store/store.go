package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access handle. It is built once at startup from the
// validated config and passed to every service. Concrete drivers (sqlite,
// postgres) implement it; the cache package decorates it.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Blacklist() Blacklist

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported and
// return sql.ErrTxDone.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. A duplicate email returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// RecordFailedLogin increments failed_login_attempts in one conditional
	// UPDATE and sets locked_until to lockUntil when the new count reaches
	// threshold. A lapsed lock restarts the count at 1. Returns the row's new
	// attempt count and lock.
	RecordFailedLogin(
		ctx context.Context,
		userID string,
		threshold int,
		lockUntil, now time.Time,
	) (attempts int, lockedUntil *time.Time, err error)

	// RecordSuccessfulLogin clears the lockout fields and stamps last_login.
	RecordSuccessfulLogin(ctx context.Context, userID string, now time.Time) error

	// UpdatePasswordHash replaces the stored hash, used for cost upgrades.
	UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error

	// SetActive flips is_active.
	SetActive(ctx context.Context, userID string, active bool, now time.Time) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by token fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// LockRefreshTokenByHash is GetRefreshTokenByHash holding a row lock until
	// the surrounding transaction ends. Only meaningful on a Tx.
	LockRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=true only if it was false. Reports
	// whether this call did the revoking.
	RevokeRefreshToken(ctx context.Context, hash string, now time.Time) (bool, error)

	// RevokeAllUserRefreshTokens revokes every live token of a user and
	// returns how many changed.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string, now time.Time) (int64, error)

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Blacklist interface {
	// AddBlacklistEntry inserts an entry. A duplicate jti is a no-op.
	AddBlacklistEntry(ctx context.Context, e domain.BlacklistEntry) error

	// IsBlacklisted reports whether jti has an entry that has not expired.
	IsBlacklisted(ctx context.Context, jti string, now time.Time) (bool, error)

	// DeleteExpiredBlacklistEntries is housekeeping.
	DeleteExpiredBlacklistEntries(ctx context.Context, now time.Time) (int64, error)
}
