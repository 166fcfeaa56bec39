package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/pkg/httpx"
	"github.com/aussiebroadwan/pantry/pkg/slogx"

	_ "github.com/aussiebroadwan/pantry/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AccountService     *service.AccountService
	RefreshCoordinator *service.RefreshCoordinator
	TokenIssuer        *service.TokenIssuer
	TokenVerifier      *service.TokenVerifier

	TrustProxyHeaders bool
}

// NewRouter creates a router. Every request is logged and bounded by
// requestTimeout; a zero timeout disables the bound.
func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	requestTimeout time.Duration,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Timeout(requestTimeout),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Pantry Authentication Service API
//	@version		0.1.0
//	@description	Account registration, login and JWT session management for Pantry.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs. Every /auth response uses the
//	@description				{success, data | error, code, message} envelope.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/pantry
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Accounts:          r.AccountService,
		Refresh:           r.RefreshCoordinator,
		Issuer:            r.TokenIssuer,
		TrustProxyHeaders: r.TrustProxyHeaders,
	}

	authn := httpx.AuthnMiddleware(r.TokenVerifier, writeAuthError)

	r.Mux.HandleFunc("POST /auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /auth/refresh", h.HandleRefresh)

	// Logout reads its own bearer token so expired or blacklisted tokens
	// still log out cleanly.
	r.Mux.HandleFunc("POST /auth/logout", h.HandleLogout)

	r.Mux.Handle("POST /auth/logout-all", httpx.Chain(http.HandlerFunc(h.HandleLogoutAll), authn))
	r.Mux.Handle("GET /auth/me", httpx.Chain(http.HandlerFunc(h.HandleMe), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
