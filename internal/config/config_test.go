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

	assert.Equal(t, "support-desk", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TicketTTL())
	assert.Equal(t, 256, cfg.Worker.QueueSize)
	assert.Equal(t, 10*time.Second, cfg.Notification.WebhookTimeout())
	assert.Empty(t, cfg.Notification.WebhookURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "desk-test")
	t.Setenv("APP_PORT", "9999")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("CACHE_TICKET_TTL_SECONDS", "60")
	t.Setenv("NOTIFY_WEBHOOK_URL", "http://hooks.internal/notify")
	t.Setenv("NOTIFY_QUEUE_SIZE", "16")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "desk-test", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:9999", cfg.App.Addr())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, time.Minute, cfg.Cache.TicketTTL())
	assert.Equal(t, "http://hooks.internal/notify", cfg.Notification.WebhookURL)
	assert.Equal(t, 16, cfg.Worker.QueueSize)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestMalformedIntFallsBackToDefault(t *testing.T) {
	t.Setenv("NOTIFY_QUEUE_SIZE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Worker.QueueSize)
}
