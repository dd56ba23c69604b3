package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-long-enough-secret")
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.PageSizeDefault)
	assert.Equal(t, 100, cfg.PageSizeMax)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.AuthorCacheTTL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-long-enough-secret")
	t.Setenv("DB_DRIVER", "SQLITE")
	t.Setenv("DB_DSN", "/tmp/forum.db")
	t.Setenv("TOKEN_TTL_MINUTES", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/forum.db", cfg.PostgresDSN())
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsPageSizeInversion(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-long-enough-secret")
	t.Setenv("PAGE_SIZE_DEFAULT", "50")
	t.Setenv("PAGE_SIZE_MAX", "10")

	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDSN_FromFields(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "disable"}

	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable TimeZone=UTC", cfg.PostgresDSN())
}
