package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef-test"
	testIssuer   = "pantry-test"
	testAudience = "pantry-api"
	testPassword = "Correct-Horse-9"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	clock      *testClock
	store      *sqlite.Store
	hasher     *cryptox.PasswordHasher
	signer     *jwtx.HS256Signer
	issuer     *TokenIssuer
	verifier   *TokenVerifier
	creds      *CredentialValidator
	revocation *RevocationService
	refresh    *RefreshCoordinator
	accounts   *AccountService
	users      *UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := newTestClock()

	hasher, err := cryptox.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	jwtVerifier, err := jwtx.NewVerifierHS256([]byte(testSecret), jwtx.VerifyOptions{
		Issuer:   testIssuer,
		Audience: testAudience,
		Leeway:   jwtx.DefaultLeeway,
		Now:      clock.Now,
	})
	require.NoError(t, err)

	issuer := &TokenIssuer{
		Store:      st,
		Signer:     signer,
		Issuer:     testIssuer,
		Audience:   testAudience,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
		Now:        clock.Now,
	}
	users := &UserService{Store: st, Now: clock.Now}
	verifier := &TokenVerifier{Store: st, JWT: jwtVerifier, Users: users, Now: clock.Now}
	creds := &CredentialValidator{
		Store:        st,
		Hasher:       hasher,
		MaxAttempts:  DefaultMaxLoginAttempts,
		LockDuration: DefaultLockoutDuration,
		Now:          clock.Now,
	}
	revocation := &RevocationService{
		Store:     st,
		AccessTTL: jwtx.DefaultAccessTokenTTL,
		Leeway:    jwtx.DefaultLeeway,
		Now:       clock.Now,
	}

	return &harness{
		clock:      clock,
		store:      st,
		hasher:     hasher,
		signer:     signer,
		issuer:     issuer,
		verifier:   verifier,
		creds:      creds,
		revocation: revocation,
		refresh: &RefreshCoordinator{
			Store:           st,
			Verifier:        verifier,
			Issuer:          issuer,
			Users:           users,
			RotationEnabled: true,
			Now:             clock.Now,
		},
		accounts: &AccountService{
			Store:       st,
			Hasher:      hasher,
			Policy:      DefaultPasswordPolicy(),
			Credentials: creds,
			Issuer:      issuer,
			Revocation:  revocation,
			Now:         clock.Now,
		},
		users: users,
	}
}

var testMeta = domain.ClientMetadata{DeviceInfo: "pantry-ios/1.0", IPAddress: "203.0.113.7"}

func (h *harness) register(t *testing.T, email string) AuthResult {
	t.Helper()
	res, err := h.accounts.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: testPassword,
		FullName: "Ada Lovelace",
	}, testMeta)
	require.NoError(t, err)
	return res
}
