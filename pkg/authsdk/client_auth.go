package authsdk

import (
	"context"
	"net/http"
)

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, "")
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeEnvelope(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeEnvelope(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token. With rotation on, the returned tokens
// include a replacement refresh token and the presented one is spent.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, "")
	if err != nil {
		return nil, err
	}

	var out RefreshResponse
	if err := decodeEnvelope(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes accessToken and, if given, refreshToken.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", LogoutRequest{RefreshToken: refreshToken}, accessToken)
	if err != nil {
		return err
	}

	var out struct{}
	return decodeEnvelope(resp, &out, http.StatusOK)
}

// LogoutAll revokes every refresh token of the caller.
func (c *Client) LogoutAll(ctx context.Context, accessToken string) (*LogoutAllResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout-all", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var out LogoutAllResponse
	if err := decodeEnvelope(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeEnvelope(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}
