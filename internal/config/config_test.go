package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "15")
	t.Setenv("AUDIT_LOG_TO_STDOUT", "false")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Auth.SessionTTL())
	assert.False(t, cfg.Audit.LogToStdout)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadRejectsUnknownSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_STORE")
}
