package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 3*time.Hour, cfg.MonitorConfig.DefaultInterval)
	assert.Equal(t, "targets.yaml", cfg.TargetsFile)
}

func TestLoadGlobalConfig_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
monitor_config:
  default_interval: "30m"
  max_concurrent_checks: 10
  failure_threshold: 5
log_config:
  log_level: "debug"
targets_file: "my-targets.yaml"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.MonitorConfig.DefaultInterval)
	assert.Equal(t, 10, cfg.MonitorConfig.MaxConcurrentChecks)
	assert.Equal(t, 5, cfg.MonitorConfig.FailureThreshold)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "my-targets.yaml", cfg.TargetsFile)
}

func TestLoadGlobalConfig_UnsetFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor_config:\n  failure_threshold: 7\n"), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MonitorConfig.FailureThreshold)
	assert.Equal(t, 5, cfg.MonitorConfig.MaxConcurrentChecks)
	assert.Equal(t, 3*time.Hour, cfg.MonitorConfig.DefaultInterval)
	assert.True(t, cfg.MonitorConfig.NotifyOnRecovery)
}

func TestLoadGlobalConfig_EnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	t.Setenv("TG_BOT_TOKEN", "env-token")
	t.Setenv("TG_CHAT_ID", "env-chat")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.example/hook")
	t.Setenv("EMAIL", "user@example.com")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("LOGIN_URL", "https://app.example.com/api/login")
	t.Setenv("PING_NEXT", "https://app.example.com/api/ping")
	t.Setenv("CHECK_INTERVAL", "15m")

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.NotificationConfig.TelegramBotToken)
	assert.Equal(t, "env-chat", cfg.NotificationConfig.TelegramChatID)
	assert.Equal(t, "https://discord.example/hook", cfg.NotificationConfig.DiscordWebhookURL)
	assert.Equal(t, "user@example.com", cfg.FetcherConfig.LoginEmail)
	assert.Equal(t, "secret", cfg.FetcherConfig.LoginPassword)
	assert.Equal(t, "https://app.example.com/api/login", cfg.FetcherConfig.LoginURL)
	assert.Equal(t, "https://app.example.com/api/login", cfg.KeepAliveConfig.LoginURL)
	assert.Equal(t, "https://app.example.com/api/ping", cfg.KeepAliveConfig.PingURL)
	assert.Equal(t, 15*time.Minute, cfg.MonitorConfig.DefaultInterval)
}

func TestLoadGlobalConfig_InvalidIntervalIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor_config:\n  default_interval: \"whenever\"\n"), 0644))

	_, err := LoadGlobalConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(NewDefaultGlobalConfig()))
}

func TestValidateConfig_RejectsBadValues(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.MonitorConfig.MaxConcurrentChecks = -1

	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_RejectsBadCronSchedule(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.KeepAliveConfig.CronSchedule = "not a cron"

	assert.Error(t, ValidateConfig(cfg))
}

func TestWatchdogConfig_MaxHeartbeatAge(t *testing.T) {
	cfg := NewDefaultWatchdogConfig()

	// Defaults to twice the monitor interval.
	assert.Equal(t, 6*time.Hour, cfg.MaxHeartbeatAge(3*time.Hour))

	// Explicit setting wins.
	cfg.MaxHeartbeatAgeRaw = "45m"
	assert.Equal(t, 45*time.Minute, cfg.MaxHeartbeatAge(3*time.Hour))

	// Without any interval information, falls back to six hours.
	cfg.MaxHeartbeatAgeRaw = ""
	assert.Equal(t, 6*time.Hour, cfg.MaxHeartbeatAge(0))
}
