package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Security.TokenTTL)
	assert.Equal(t, 5, cfg.Security.VerifyMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Security.VerifyWindow)
	assert.Equal(t, "DM", cfg.Mailer.Sender)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BACKOFFICE_ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}
