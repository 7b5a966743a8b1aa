package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
telegram:
  token: "test-bot-token"
ai:
  token: "test-ai-token"
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "test-bot-token", cfg.Telegram.Token)
	assert.Equal(t, "test-ai-token", cfg.AI.Token)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "openai", cfg.AI.Backend)
	assert.Equal(t, DefaultHistorySize, cfg.Chat.HistorySize)
	assert.Equal(t, DefaultRateWindow, cfg.Chat.RateWindow)
	assert.Equal(t, DefaultRateMaxRequests, cfg.Chat.RateMaxRequests)
	assert.Equal(t, DefaultMaxMessageLength, cfg.Chat.MaxMessageLength)
	assert.NotEmpty(t, cfg.Chat.DefaultPersonality)
	assert.NotEmpty(t, cfg.Telegram.Messages.RateLimited)
	assert.NotEmpty(t, cfg.Database.Path)

	task, ok := cfg.Scheduler.Tasks["db_maintenance"]
	require.True(t, ok)
	assert.True(t, task.Enabled)
	assert.NotEmpty(t, task.Cron)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
telegram:
  token: "test-bot-token"
log:
  level: debug
chat:
  history_size: 20
  rate_window: 30s
  canned_replies: ["lol", "nice"]
ai:
  token: "test-ai-token"
  backend: gemini
  model: gemini-2.0-flash
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 20, cfg.Chat.HistorySize)
	assert.Equal(t, 30*time.Second, cfg.Chat.RateWindow)
	assert.Equal(t, []string{"lol", "nice"}, cfg.Chat.CannedReplies)
	assert.Equal(t, "gemini", cfg.AI.Backend)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOLTUN_TELEGRAM_TOKEN", "env-bot-token")
	t.Setenv("BOLTUN_AI_TOKEN", "env-ai-token")
	t.Setenv("BOLTUN_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-bot-token", cfg.Telegram.Token)
	assert.Equal(t, "env-ai-token", cfg.AI.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	t.Setenv("BOLTUN_TELEGRAM_TOKEN", "env-bot-token")
	t.Setenv("BOLTUN_AI_TOKEN", "env-ai-token")

	_, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	assert.NoError(t, err)
}

func TestLoadRejectsMissingTokens(t *testing.T) {
	_, err := Load(writeConfig(t, `
telegram:
  token: ""
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"bad log level", "log:\n  level: loud"},
		{"bad backend", "ai:\n  backend: llama\n  model: x"},
		{"history too large", "chat:\n  history_size: 500"},
		{"zero rate budget", "chat:\n  rate_max_requests: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, minimalConfig+"\n"+tt.overlay))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: [unclosed"))
	assert.Error(t, err)
}
