package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"SERVER_PORT", "API_BASE_URL", "API_TIMEOUT", "PAGE_SIZE",
		"LOG_LEVEL", "LOG_FORMAT", "AUDIT_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.View.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://localhost:9000/")
	t.Setenv("API_TIMEOUT", "0")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("DB_NAME", "journal")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, 10, cfg.View.PageSize)
	assert.True(t, cfg.Audit.Enabled)
	assert.Contains(t, cfg.Database.ConnectionString(), "dbname=journal")
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"PAGE_SIZE":     "0",
		"DB_PORT":       "abc",
		"API_TIMEOUT":   "soon",
		"AUDIT_ENABLED": "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
