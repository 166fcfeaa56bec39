package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/authsdk"
	"github.com/aussiebroadwan/pantry/pkg/httpx"
)

// CachePinger is implemented by stores that front a cache.
type CachePinger interface {
	PingCache(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe reporting the database and blacklist cache.
//	@Description	Only the database decides readiness; a failing cache is reported but the service keeps serving from the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	cache, hasCache := st.(CachePinger)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Cache:    "disabled",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if hasCache {
			checks.Cache = "ok"
			if err := cache.PingCache(ctx); err != nil {
				checks.Cache = "error: " + err.Error()
			}
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
