package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/pantry/internal/auth/http"
	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/internal/auth/store"
	"github.com/aussiebroadwan/pantry/internal/auth/store/cache"
	"github.com/aussiebroadwan/pantry/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/pantry/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
	"github.com/aussiebroadwan/pantry/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	redis *redis.Client // nil when the blacklist cache is disabled

	// Services
	tokenIssuer         *service.TokenIssuer
	tokenVerifier       *service.TokenVerifier
	userService         *service.UserService
	accountService      *service.AccountService
	refreshCoordinator  *service.RefreshCoordinator
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// cfg must have passed Validate.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.UsingFixtureSecret {
		app.logger.Warn("using the development fixture JWT secret; set AUTH_JWT_SECRET outside dev and test")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCache()

	if err := app.initServices(); err != nil {
		_ = app.close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the configured router, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.Database.Driver,
		"rotation", app.cfg.Auth.RotateRefreshTokens,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod.Duration)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.close(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// close releases the cache client and the database pool.
func (app *Application) close() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.Database.Driver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.Database.URL, postgres.Options{
			MaxOpenConns:    app.cfg.Database.MaxConns,
			MaxIdleConns:    app.cfg.Database.MaxConns / 2,
			ConnMaxLifetime: 30 * time.Minute,
		})
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.Database.File))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		app.db = nil
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.Database.Driver)
	return nil
}

// initCache wraps the store with the Redis blacklist cache when configured.
// An unreachable Redis only costs latency, so startup continues regardless.
func (app *Application) initCache() {
	if app.cfg.Redis.Addr == "" {
		return
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.cfg.Redis.Addr,
		Password: app.cfg.Redis.Password,
		DB:       app.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := app.redis.Ping(ctx).Err(); err != nil {
		app.logger.Warn("redis unreachable, blacklist lookups fall back to the database", "addr", app.cfg.Redis.Addr, "error", err)
	}

	app.db = cache.Wrap(app.db, app.redis, app.logger, cache.DefaultKeyPrefix)
	app.logger.Info("blacklist cache enabled", "addr", app.cfg.Redis.Addr)
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	auth := app.cfg.Auth
	secret := []byte(auth.JWTSecret)

	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{
		Issuer:   auth.Issuer,
		Audience: auth.Audience,
		Leeway:   auth.ClockSkew.Duration,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	hasher, err := cryptox.NewPasswordHasher(auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.tokenIssuer = &service.TokenIssuer{
		Store:      app.db,
		Signer:     signer,
		Issuer:     auth.Issuer,
		Audience:   auth.Audience,
		AccessTTL:  auth.AccessTTL.Duration,
		RefreshTTL: auth.RefreshTTL.Duration,
	}
	app.userService = &service.UserService{Store: app.db}
	app.tokenVerifier = &service.TokenVerifier{
		Store: app.db,
		JWT:   verifier,
		Users: app.userService,
	}

	// Blacklist entries must outlive the verifier's own expiry tolerance.
	revocation := &service.RevocationService{
		Store:     app.db,
		AccessTTL: auth.AccessTTL.Duration,
		Leeway:    verifier.Leeway(),
	}
	credentials := &service.CredentialValidator{
		Store:        app.db,
		Hasher:       hasher,
		MaxAttempts:  auth.MaxLoginAttempts,
		LockDuration: auth.LockoutDuration.Duration,
	}

	app.accountService = &service.AccountService{
		Store:       app.db,
		Hasher:      hasher,
		Policy:      auth.Password.Policy(),
		Credentials: credentials,
		Issuer:      app.tokenIssuer,
		Revocation:  revocation,
	}
	app.refreshCoordinator = &service.RefreshCoordinator{
		Store:           app.db,
		Verifier:        app.tokenVerifier,
		Issuer:          app.tokenIssuer,
		Users:           app.userService,
		RotationEnabled: auth.RotateRefreshTokens,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval.Duration,
	)

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.RequestTimeout.Duration,
	)

	router.AccountService = app.accountService
	router.RefreshCoordinator = app.refreshCoordinator
	router.TokenIssuer = app.tokenIssuer
	router.TokenVerifier = app.tokenVerifier
	router.TrustProxyHeaders = app.cfg.Auth.TrustProxyHeaders
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
