package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pharma")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "admin_token", cfg.Auth.CookieName)
	assert.Equal(t, 8*time.Hour, cfg.Auth.CookieMaxAge)
	assert.Equal(t, 4, cfg.Summary.Concurrency)
	assert.Equal(t, time.Duration(0), cfg.Summary.RefreshInterval)
	assert.False(t, cfg.Workflow.RejectedRecoverable)
	assert.False(t, cfg.IsDevelopment())
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pharma")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REJECTED_RECOVERABLE", "true")
	t.Setenv("SUMMARY_REFRESH_INTERVAL", "10m")
	t.Setenv("AWS_REGION", "us-east-1")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Workflow.RejectedRecoverable)
	assert.Equal(t, 10*time.Minute, cfg.Summary.RefreshInterval)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
}

func TestFromViper_Validation(t *testing.T) {
	t.Run("database url required", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := FromViper(newViper())
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("jwt secret required in production", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/pharma")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("APP_ENV", "production")
		_, err := FromViper(newViper())
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("development falls back to a dev secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/pharma")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("APP_ENV", "development")
		cfg, err := FromViper(newViper())
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
		assert.True(t, cfg.IsDevelopment())
	})
}
