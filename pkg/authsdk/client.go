package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// Client is a client for the pantry authentication service. It covers the
// unauthenticated endpoints and creates auto-refreshing Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// UserAgent is sent on every request; the server records it as the
	// device description of issued refresh tokens.
	UserAgent string
}

// NewClient creates a client with a 10 second HTTP timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
