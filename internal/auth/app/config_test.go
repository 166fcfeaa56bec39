package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT", "SHUTDOWN_GRACE_PERIOD", "HOUSEKEEPING_INTERVAL", "REQUEST_TIMEOUT",
	"AUTH_CONFIG_FILE", "AUTH_ENV_FILE",
	"AUTH_DATABASE_DRIVER", "AUTH_DATABASE_FILE", "AUTH_DATABASE_URL", "AUTH_DATABASE_MAX_CONNS",
	"AUTH_REDIS_ADDR", "AUTH_REDIS_PASSWORD", "AUTH_REDIS_DB",
	"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_JWT_SECRET", "AUTH_ACCESS_TTL", "AUTH_REFRESH_TTL", "AUTH_CLOCK_SKEW",
	"AUTH_ROTATE_REFRESH_TOKENS", "AUTH_MAX_LOGIN_ATTEMPTS", "AUTH_LOCKOUT_DURATION", "AUTH_BCRYPT_COST",
	"AUTH_TRUST_PROXY_HEADERS", "AUTH_PASSWORD_MIN_LENGTH", "AUTH_PASSWORD_MAX_LENGTH",
	"AUTH_PASSWORD_REQUIRE_UPPER", "AUTH_PASSWORD_REQUIRE_LOWER", "AUTH_PASSWORD_REQUIRE_DIGIT",
	"AUTH_PASSWORD_REQUIRE_SPECIAL",
}

// clearEnv blanks every config variable for the test. Empty values are
// treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

const strongSecret = "an-actual-production-secret-of-sufficient-length"

func TestLoadConfig_DevDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, EnvDev, cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL.Duration)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL.Duration)
	require.Equal(t, 30*time.Second, cfg.Auth.ClockSkew.Duration)
	require.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	require.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration.Duration)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout.Duration)
	require.True(t, cfg.Auth.RotateRefreshTokens)

	require.True(t, cfg.UsingFixtureSecret)
	require.Equal(t, FixtureJWTSecret, cfg.Auth.JWTSecret)
}

func TestLoadConfig_ProductionSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"missing", "", true},
		{"fixture", FixtureJWTSecret, true},
		{"too short", "short-secret", true},
		{"strong", strongSecret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ENV", EnvProd)
			t.Setenv("AUTH_JWT_SECRET", tt.secret)

			cfg, err := LoadConfig()
			if tt.wantErr {
				require.ErrorContains(t, err, "AUTH_JWT_SECRET")
				return
			}
			require.NoError(t, err)
			require.False(t, cfg.UsingFixtureSecret)
			require.Equal(t, strongSecret, cfg.Auth.JWTSecret)
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_ACCESS_TTL", "10")
	t.Setenv("AUTH_CLOCK_SKEW", "45s")
	t.Setenv("AUTH_LOCKOUT_DURATION", "1h")
	t.Setenv("AUTH_ROTATE_REFRESH_TOKENS", "false")
	t.Setenv("AUTH_TRUST_PROXY_HEADERS", "true")
	t.Setenv("AUTH_PASSWORD_REQUIRE_SPECIAL", "true")
	t.Setenv("AUTH_REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 10*time.Minute, cfg.Auth.AccessTTL.Duration)
	require.Equal(t, 45*time.Second, cfg.Auth.ClockSkew.Duration)
	require.Equal(t, time.Hour, cfg.Auth.LockoutDuration.Duration)
	require.False(t, cfg.Auth.RotateRefreshTokens)
	require.True(t, cfg.Auth.TrustProxyHeaders)
	require.True(t, cfg.Auth.Password.Policy().RequireSpecial)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfig_ReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("AUTH_ACCESS_TTL", "soon")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "PORT")
	require.ErrorContains(t, err, "AUTH_ACCESS_TTL")
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown env", map[string]string{"ENV": "qa"}, "ENV"},
		{"postgres without url", map[string]string{"AUTH_DATABASE_DRIVER": "postgres"}, "AUTH_DATABASE_URL"},
		{"unknown driver", map[string]string{"AUTH_DATABASE_DRIVER": "mysql"}, "AUTH_DATABASE_DRIVER"},
		{"refresh shorter than access", map[string]string{"AUTH_REFRESH_TTL": "5m"}, "AUTH_REFRESH_TTL"},
		{"zero attempts", map[string]string{"AUTH_MAX_LOGIN_ATTEMPTS": "0"}, "AUTH_MAX_LOGIN_ATTEMPTS"},
		{"bcrypt cost", map[string]string{"AUTH_BCRYPT_COST": "40"}, "AUTH_BCRYPT_COST"},
		{"password max", map[string]string{"AUTH_PASSWORD_MAX_LENGTH": "100"}, "AUTH_PASSWORD_MAX_LENGTH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "auth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: test
port: 7000
request_timeout: 2s
database:
  driver: sqlite
  file: /tmp/pantry.db
auth:
  issuer: pantry-yaml
  access_ttl: 20
  refresh_ttl: 72h
  password:
    min_length: 12
    max_length: 64
`), 0o600))
	t.Setenv("AUTH_CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, EnvTest, cfg.Env)
	require.Equal(t, 7001, cfg.Port)
	require.Equal(t, 2*time.Second, cfg.RequestTimeout.Duration)
	require.Equal(t, "/tmp/pantry.db", cfg.Database.File)
	require.Equal(t, "pantry-yaml", cfg.Auth.Issuer)
	require.Equal(t, 20*time.Minute, cfg.Auth.AccessTTL.Duration)
	require.Equal(t, 72*time.Hour, cfg.Auth.RefreshTTL.Duration)
	require.Equal(t, 12, cfg.Auth.Password.MinLength)

	// Fields absent from the file keep their defaults.
	require.Equal(t, "pantry-api", cfg.Auth.Audience)
	require.True(t, cfg.Auth.Password.RequireDigit)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("AUTH_ISSUER"))
	require.NoError(t, os.Unsetenv("AUTH_AUDIENCE"))

	path := filepath.Join(t.TempDir(), "auth.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_ISSUER=pantry-dotenv\nAUTH_AUDIENCE=pantry-mobile\n"), 0o600))
	t.Setenv("AUTH_ENV_FILE", path)
	t.Setenv("AUTH_AUDIENCE", "from-process")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "pantry-dotenv", cfg.Auth.Issuer)
	require.Equal(t, "from-process", cfg.Auth.Audience)
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := LoadConfig()
	require.Error(t, err)
}
