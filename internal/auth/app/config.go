package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/service"
	"github.com/aussiebroadwan/pantry/pkg/cryptox"
	"github.com/aussiebroadwan/pantry/pkg/jwtx"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// FixtureJWTSecret is substituted in dev and test when no secret is
// configured. It is rejected in staging and prod.
const FixtureJWTSecret = "pantry-development-fixture-secret-do-not-use-in-production"

const (
	EnvDev     = "dev"
	EnvTest    = "test"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                  string   `yaml:"env"`        // dev, test, staging, prod (default: dev)
	LogLevel             string   `yaml:"log_level"`  // debug, info, warn, error (default: info)
	LogFormat            string   `yaml:"log_format"` // json, text (default: json)
	Port                 int      `yaml:"port"`       // HTTP server port (default: 8080)
	ShutdownGracePeriod  Duration `yaml:"shutdown_grace_period"`
	HousekeepingInterval Duration `yaml:"housekeeping_interval"`
	RequestTimeout       Duration `yaml:"request_timeout"` // per-request deadline, 0 disables (default: 5s)

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`

	// UsingFixtureSecret is set by Validate when FixtureJWTSecret is in use.
	UsingFixtureSecret bool `yaml:"-"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite or postgres (default: sqlite)
	File     string `yaml:"file"`   // sqlite database path (default: auth.db)
	URL      string `yaml:"url"`    // postgres DSN
	MaxConns int    `yaml:"max_conns"`
}

// RedisConfig enables the blacklist cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	Issuer              string   `yaml:"issuer"`
	Audience            string   `yaml:"audience"`
	JWTSecret           string   `yaml:"jwt_secret"`
	AccessTTL           Duration `yaml:"access_ttl"`
	RefreshTTL          Duration `yaml:"refresh_ttl"`
	ClockSkew           Duration `yaml:"clock_skew"`
	RotateRefreshTokens bool     `yaml:"rotate_refresh_tokens"`
	MaxLoginAttempts    int      `yaml:"max_login_attempts"`
	LockoutDuration     Duration `yaml:"lockout_duration"`
	BcryptCost          int      `yaml:"bcrypt_cost"`
	TrustProxyHeaders   bool     `yaml:"trust_proxy_headers"`

	Password PasswordConfig `yaml:"password"`
}

type PasswordConfig struct {
	MinLength      int  `yaml:"min_length"`
	MaxLength      int  `yaml:"max_length"`
	RequireUpper   bool `yaml:"require_upper"`
	RequireLower   bool `yaml:"require_lower"`
	RequireDigit   bool `yaml:"require_digit"`
	RequireSpecial bool `yaml:"require_special"`
}

func (p PasswordConfig) Policy() service.PasswordPolicy {
	return service.PasswordPolicy{
		MinLength:      p.MinLength,
		MaxLength:      p.MaxLength,
		RequireUpper:   p.RequireUpper,
		RequireLower:   p.RequireLower,
		RequireDigit:   p.RequireDigit,
		RequireSpecial: p.RequireSpecial,
	}
}

// Duration reads either a Go duration string ("90s", "15m") or a bare
// integer number of minutes.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = v
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if minutes, err := strconv.Atoi(s); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

func DefaultConfig() Config {
	policy := service.DefaultPasswordPolicy()
	return Config{
		Env:                  EnvDev,
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  Duration{10 * time.Second},
		HousekeepingInterval: Duration{time.Hour},
		RequestTimeout:       Duration{5 * time.Second},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			File:     "auth.db",
			MaxConns: 10,
		},
		Auth: AuthConfig{
			Issuer:              "pantry-auth",
			Audience:            "pantry-api",
			AccessTTL:           Duration{jwtx.DefaultAccessTokenTTL},
			RefreshTTL:          Duration{jwtx.DefaultRefreshTokenTTL},
			ClockSkew:           Duration{jwtx.DefaultLeeway},
			RotateRefreshTokens: true,
			MaxLoginAttempts:    service.DefaultMaxLoginAttempts,
			LockoutDuration:     Duration{service.DefaultLockoutDuration},
			BcryptCost:          cryptox.DefaultBcryptCost,
			Password: PasswordConfig{
				MinLength:      policy.MinLength,
				MaxLength:      policy.MaxLength,
				RequireUpper:   policy.RequireUpper,
				RequireLower:   policy.RequireLower,
				RequireDigit:   policy.RequireDigit,
				RequireSpecial: policy.RequireSpecial,
			},
		},
	}
}

// LoadConfig layers defaults, the YAML file named by AUTH_CONFIG_FILE, the
// dotenv file named by AUTH_ENV_FILE (default .env) and the process
// environment, then validates the result. Variables already in the
// environment win over the dotenv file.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	if path := os.Getenv("AUTH_CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv loads AUTH_ENV_FILE, or .env when present.
func loadDotEnv() error {
	path := os.Getenv("AUTH_ENV_FILE")
	if path == "" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := parseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			dst.Duration = d
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
				return
			}
			*dst = b
		}
	}

	str("ENV", &c.Env)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	num("PORT", &c.Port)
	dur("SHUTDOWN_GRACE_PERIOD", &c.ShutdownGracePeriod)
	dur("HOUSEKEEPING_INTERVAL", &c.HousekeepingInterval)
	dur("REQUEST_TIMEOUT", &c.RequestTimeout)

	str("AUTH_DATABASE_DRIVER", &c.Database.Driver)
	str("AUTH_DATABASE_FILE", &c.Database.File)
	str("AUTH_DATABASE_URL", &c.Database.URL)
	num("AUTH_DATABASE_MAX_CONNS", &c.Database.MaxConns)

	str("AUTH_REDIS_ADDR", &c.Redis.Addr)
	str("AUTH_REDIS_PASSWORD", &c.Redis.Password)
	num("AUTH_REDIS_DB", &c.Redis.DB)

	str("AUTH_ISSUER", &c.Auth.Issuer)
	str("AUTH_AUDIENCE", &c.Auth.Audience)
	str("AUTH_JWT_SECRET", &c.Auth.JWTSecret)
	dur("AUTH_ACCESS_TTL", &c.Auth.AccessTTL)
	dur("AUTH_REFRESH_TTL", &c.Auth.RefreshTTL)
	dur("AUTH_CLOCK_SKEW", &c.Auth.ClockSkew)
	flag("AUTH_ROTATE_REFRESH_TOKENS", &c.Auth.RotateRefreshTokens)
	num("AUTH_MAX_LOGIN_ATTEMPTS", &c.Auth.MaxLoginAttempts)
	dur("AUTH_LOCKOUT_DURATION", &c.Auth.LockoutDuration)
	num("AUTH_BCRYPT_COST", &c.Auth.BcryptCost)
	flag("AUTH_TRUST_PROXY_HEADERS", &c.Auth.TrustProxyHeaders)

	num("AUTH_PASSWORD_MIN_LENGTH", &c.Auth.Password.MinLength)
	num("AUTH_PASSWORD_MAX_LENGTH", &c.Auth.Password.MaxLength)
	flag("AUTH_PASSWORD_REQUIRE_UPPER", &c.Auth.Password.RequireUpper)
	flag("AUTH_PASSWORD_REQUIRE_LOWER", &c.Auth.Password.RequireLower)
	flag("AUTH_PASSWORD_REQUIRE_DIGIT", &c.Auth.Password.RequireDigit)
	flag("AUTH_PASSWORD_REQUIRE_SPECIAL", &c.Auth.Password.RequireSpecial)

	return errors.Join(errs...)
}

// IsProduction reports whether the environment refuses fixture values.
func (c *Config) IsProduction() bool {
	return c.Env == EnvStaging || c.Env == EnvProd
}

// Validate checks every field and reports all problems at once. In dev and
// test a missing JWT secret is replaced by FixtureJWTSecret.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.Env {
	case EnvDev, EnvTest, EnvStaging, EnvProd:
	default:
		fail("ENV: unknown environment %q", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		fail("PORT: %d out of range", c.Port)
	}
	if c.ShutdownGracePeriod.Duration <= 0 {
		fail("SHUTDOWN_GRACE_PERIOD: must be positive")
	}
	if c.RequestTimeout.Duration < 0 {
		fail("REQUEST_TIMEOUT: must not be negative")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.File == "" {
			fail("AUTH_DATABASE_FILE: required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			fail("AUTH_DATABASE_URL: required for the postgres driver")
		}
	default:
		fail("AUTH_DATABASE_DRIVER: unknown driver %q", c.Database.Driver)
	}

	if c.Auth.Issuer == "" {
		fail("AUTH_ISSUER: required")
	}
	if c.Auth.Audience == "" {
		fail("AUTH_AUDIENCE: required")
	}

	c.UsingFixtureSecret = false
	switch {
	case c.Auth.JWTSecret == "" && !c.IsProduction():
		c.Auth.JWTSecret = FixtureJWTSecret
		c.UsingFixtureSecret = true
	case c.Auth.JWTSecret == "":
		fail("AUTH_JWT_SECRET: required in %s", c.Env)
	case c.Auth.JWTSecret == FixtureJWTSecret && c.IsProduction():
		fail("AUTH_JWT_SECRET: the development fixture is not allowed in %s", c.Env)
	case c.Auth.JWTSecret == FixtureJWTSecret:
		c.UsingFixtureSecret = true
	case len(c.Auth.JWTSecret) < jwtx.MinHS256SecretBytes:
		fail("AUTH_JWT_SECRET: must be at least %d bytes", jwtx.MinHS256SecretBytes)
	}

	if c.Auth.AccessTTL.Duration <= 0 {
		fail("AUTH_ACCESS_TTL: must be positive")
	}
	if c.Auth.RefreshTTL.Duration <= c.Auth.AccessTTL.Duration {
		fail("AUTH_REFRESH_TTL: must be longer than AUTH_ACCESS_TTL")
	}
	if c.Auth.ClockSkew.Duration < 0 || c.Auth.ClockSkew.Duration >= c.Auth.AccessTTL.Duration {
		fail("AUTH_CLOCK_SKEW: must be between 0 and AUTH_ACCESS_TTL")
	}
	if c.Auth.MaxLoginAttempts < 1 {
		fail("AUTH_MAX_LOGIN_ATTEMPTS: must be at least 1")
	}
	if c.Auth.LockoutDuration.Duration <= 0 {
		fail("AUTH_LOCKOUT_DURATION: must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		fail("AUTH_BCRYPT_COST: must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	p := c.Auth.Password
	if p.MinLength < 1 {
		fail("AUTH_PASSWORD_MIN_LENGTH: must be at least 1")
	}
	if p.MaxLength > cryptox.MaxPasswordBytes {
		fail("AUTH_PASSWORD_MAX_LENGTH: bcrypt hashes at most %d bytes", cryptox.MaxPasswordBytes)
	}
	if p.MaxLength < p.MinLength {
		fail("AUTH_PASSWORD_MAX_LENGTH: shorter than AUTH_PASSWORD_MIN_LENGTH")
	}

	return errors.Join(errs...)
}
