package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/domain"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/idx"
	"github.com/aussiebroadwan/pantry/pkg/slogx"
)

// AccountService composes the validator, issuer and revocation service into
// the register, login and logout flows.
type AccountService struct {
	Store       store.Store
	Hasher      *cryptox.PasswordHasher
	Policy      PasswordPolicy
	Credentials *CredentialValidator
	Issuer      *TokenIssuer
	Revocation  *RevocationService
	Now         func() time.Time
}

type AuthResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// Register validates in, creates the user and issues a token pair. Nothing
// is written unless validation passes. A lost duplicate-email race surfaces
// as ErrEmailExists like the existence check does.
func (s *AccountService) Register(ctx context.Context, in RegisterInput, meta domain.ClientMetadata) (AuthResult, error) {
	if err := in.validate(s.Policy); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := nowFunc(s.Now)()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        domain.NormalizeEmail(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var refresh domain.IssuedToken
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, user.Email)
		switch {
		case err == nil:
			return ErrEmailExists
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailExists
			}
			return err
		}

		refresh, err = s.Issuer.IssueRefreshTokenTx(ctx, tx, user, meta)
		return err
	})
	if err != nil {
		return AuthResult{}, err
	}

	access, err := s.Issuer.IssueAccessToken(user)
	if err != nil {
		return AuthResult{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID)

	return AuthResult{
		User:   user,
		Tokens: domain.TokenPair{Access: access, Refresh: &refresh},
	}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string, meta domain.ClientMetadata) (AuthResult, error) {
	user, err := s.Credentials.Validate(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}

	access, err := s.Issuer.IssueAccessToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	refresh, err := s.Issuer.IssueRefreshToken(ctx, user, meta)
	if err != nil {
		return AuthResult{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)

	return AuthResult{
		User:   user,
		Tokens: domain.TokenPair{Access: access, Refresh: &refresh},
	}, nil
}

// Logout blacklists accessToken and revokes refreshToken when given. It is
// idempotent: undecodable, expired or already revoked tokens are skipped.
func (s *AccountService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	l := slogx.FromContext(ctx)

	if accessToken != "" {
		err := s.Revocation.Blacklist(ctx, accessToken, domain.ReasonLogout)
		switch {
		case errors.Is(err, ErrInvalidToken):
			l.Info("logout with undecodable access token", "error", err)
		case err != nil:
			return err
		}
	}

	if refreshToken != "" {
		if _, err := s.Revocation.Revoke(ctx, refreshToken); err != nil {
			return err
		}
	}

	return nil
}

// LogoutAll revokes every refresh token of userID and blacklists the access
// token used for the call. It returns how many sessions were revoked.
func (s *AccountService) LogoutAll(ctx context.Context, userID, accessToken string) (int64, error) {
	n, err := s.Revocation.RevokeAll(ctx, userID)
	if err != nil {
		return 0, err
	}

	if accessToken != "" {
		if err := s.Revocation.Blacklist(ctx, accessToken, domain.ReasonLogoutAll); err != nil {
			return n, err
		}
	}

	slogx.FromContext(ctx).Info("all sessions revoked", "user_id", userID, "revoked", n)
	return n, nil
}
