package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "5432")
	t.Setenv("PG_USER", "postgres")
	t.Setenv("PG_PASSWORD", "")
	t.Setenv("PG_DATABASE", "backoffice")
	t.Setenv("PG_SSL_MODE", "disable")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "local-development-secret", cfg.JWT.Secret)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t,
		"host=db.internal port=5432 user=postgres password= dbname=backoffice sslmode=disable",
		cfg.Postgres.DSN())
}

func TestLoadRequiresSecretOutsideLocal(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}
