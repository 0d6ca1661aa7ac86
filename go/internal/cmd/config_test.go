package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hackhub")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./media", cfg.MediaRoot)
	assert.Equal(t, "http://localhost:8080", cfg.MediaBaseURL)
	assert.Equal(t, 5*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hackhub")
	t.Setenv("JWT_SECRET", "")

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hackhub")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example.com")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("OUTBOX_BATCH_SIZE", "10")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://cdn.example.com", cfg.MediaBaseURL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 10, cfg.OutboxBatchSize)
}

func TestLoadConfigRejectsBadInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hackhub")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OUTBOX_POLL_INTERVAL", "soon")

	_, err := loadConfig()
	assert.Error(t, err)
}
