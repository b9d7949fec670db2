package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "")
	t.Setenv("CHAT_MODE", "")
	t.Setenv("SESSION_TTL_MINUTES", "not-a-number")
	t.Setenv("OTEL_SERVICE_NAME", "genesis-board")
	t.Setenv("OTEL_SAMPLE_RATIO", "")
	t.Setenv("FEEDBACK_TTL_HOURS", "")

	cfg := Load()

	assert.Equal(t, "8000", cfg.App.Port)
	assert.NotContains(t, cfg.App.CorsAllowedOrigins, ":"+cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.Board.FeedbackTTL)
	assert.Equal(t, "", cfg.Chat.Mode)
	assert.Equal(t, 240*time.Minute, cfg.Board.SessionTTL)
	assert.False(t, cfg.PersistenceEnabled())
	assert.Equal(t, "genesis-board", cfg.Tracing.ServiceName)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_CONNECTION_STRING", "file:board.db")
	t.Setenv("CHAT_MODE", "Remote")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "5")
	t.Setenv("BOARD_SEED_DEMO", "false")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.2")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("FEEDBACK_TTL_HOURS", "48")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.PersistenceEnabled())
	assert.Equal(t, "remote", cfg.Chat.Mode)
	assert.Equal(t, 5*time.Second, cfg.Chat.Timeout)
	assert.False(t, cfg.Board.SeedDemo)
	assert.Equal(t, 15*time.Minute, cfg.Board.SessionTTL)
	assert.Equal(t, 48*time.Hour, cfg.Board.FeedbackTTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.2, cfg.Tracing.SampleRatio)
}
