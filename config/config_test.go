package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var configKeys = []string{
	"PORT", "GIN_MODE", "DB_DRIVER", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_PORT", "DB_SSLMODE", "SQLITE_PATH", "JWT_SECRET", "JWT_TTL", "APP_TIMEZONE",
	"LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS", "AUTH_RATE_LIMIT", "AUTH_RATE_BURST",
	"AWS_REGION", "MAIL_FROM",
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t, configKeys...)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
	assert.Equal(t, 10, cfg.AuthRateBurst)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	clearEnv(t, configKeys...)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/points-test.db")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AUTH_RATE_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/points-test.db", cfg.SQLitePath)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.AuthRateBurst)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\nDB_NAME=points\n"), 0o600))
	clearEnv(t, configKeys...)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.JWTSecret)
	assert.Equal(t, "points", cfg.DBName)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")

	cfg.JWTSecret = "x"
	require.NoError(t, cfg.Validate())

	cfg.DBDriver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.DBDriver = "sqlite"
	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	cfg := Defaults()
	cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName = "db", "points", "pw", "pointsdb"
	assert.Equal(t, "host=db user=points password=pw dbname=pointsdb port=5432 sslmode=disable", cfg.PostgresDSN())
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewLogger("loud", "json")
	assert.Error(t, err)
}
