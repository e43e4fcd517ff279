package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "fixture-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "crm-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "fixture-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "crm:reminders", cfg.Notification.ReminderQueue)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Empty(t, cfg.Auth.AdminEmail)
	assert.Empty(t, cfg.Auth.AdminPassword)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "fixture-secret")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "24")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("AUTH_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("AUTH_ADMIN_PASSWORD", "change-me-now")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "admin@example.com", cfg.Auth.AdminEmail)
	assert.Equal(t, "change-me-now", cfg.Auth.AdminPassword)
}
