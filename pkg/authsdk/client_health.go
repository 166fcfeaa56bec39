package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetLiveness calls GET /livez. The body is a bare HealthResponse (not an
// Envelope) carrying status "ok", uptime and version; Checks is nil because
// liveness never touches a dependency.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, "")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// GetReadiness calls GET /readyz, which reports
//
//	{"status": "ok"|"degraded", "uptime": "1m2s", "version": "v0.1.0",
//	 "checks": {"database": "ok"|"error: ...", "cache": "ok"|"error: ..."|"disabled"}}
//
// Only checks.database decides readiness. checks.cache is "disabled" when no
// blacklist cache is configured, and a failing cache is reported without
// failing the probe.
//
// A 503 returns both the decoded report and an *APIError matching
// ErrServiceUnavailable, so callers can see which check failed.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
	default:
		return nil, parseErrorResponse(resp, body)
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, parseErrorResponse(resp, body)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &health, parseErrorResponse(resp, body)
	}
	return &health, nil
}
