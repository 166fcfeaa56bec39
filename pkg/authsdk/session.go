package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// refreshBuffer is how long before expiry a Session refreshes proactively.
const refreshBuffer = 30 * time.Second

// Session holds a token pair and keeps the access token fresh. Calls
// refresh 30 seconds before expiry, and once more if the server still
// answers TOKEN_EXPIRED.
type Session struct {
	client *Client
	now    func() time.Time

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// LoginSession logs in and wraps the result in a Session.
func (c *Client) LoginSession(ctx context.Context, email, password string) (*Session, *User, error) {
	resp, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	return c.NewSessionFromTokens(resp.Tokens), &resp.User, nil
}

// NewSessionFromTokens creates a session from tokens obtained elsewhere,
// e.g. a register response or tokens restored from storage.
func (c *Client) NewSessionFromTokens(t Tokens) *Session {
	s := &Session{client: c, now: time.Now}
	s.store(t)
	return s
}

// store must be called with mu held for writing, or before s is shared.
func (s *Session) store(t Tokens) {
	s.accessToken = t.AccessToken
	// A refresh without rotation keeps the current refresh token.
	if t.RefreshToken != "" {
		s.refreshToken = t.RefreshToken
	}
	s.expiresAt = s.now().Add(time.Duration(t.ExpiresIn)*time.Second - refreshBuffer)
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// getValidToken returns a valid access token, refreshing first if it is
// within the buffer of expiry.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	stale := s.accessToken
	s.mu.RUnlock()

	return s.refresh(ctx, stale)
}

// refresh exchanges the refresh token unless another goroutine already
// replaced stale.
func (s *Session) refresh(ctx context.Context, stale string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != stale {
		return s.accessToken, nil
	}
	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.store(resp.Tokens)
	return s.accessToken, nil
}

// do runs fn with a valid access token, retrying once after a reactive
// refresh when the server reports TOKEN_EXPIRED.
func (s *Session) do(ctx context.Context, fn func(token string) error) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}

	err = fn(token)
	if !errors.Is(err, ErrTokenExpired) {
		return err
	}

	token, err = s.refresh(ctx, token)
	if err != nil {
		return err
	}
	return fn(token)
}

// Me returns the session's account.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var user *User
	err := s.do(ctx, func(token string) error {
		var err error
		user, err = s.client.Me(ctx, token)
		return err
	})
	return user, err
}

// Logout ends this session on the server. The session is unusable after.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	access, refresh := s.accessToken, s.refreshToken
	s.accessToken, s.refreshToken = "", ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	return s.client.Logout(ctx, access, refresh)
}

// LogoutAll revokes every session of the account, this one included.
func (s *Session) LogoutAll(ctx context.Context) (*LogoutAllResponse, error) {
	var out *LogoutAllResponse
	err := s.do(ctx, func(token string) error {
		var err error
		out, err = s.client.LogoutAll(ctx, token)
		return err
	})
	return out, err
}
