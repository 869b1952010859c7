package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pagewatcher/internal/common"

	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MonitorConfig      MonitorConfig      `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	FetcherConfig      FetcherConfig      `json:"fetcher_config,omitempty" yaml:"fetcher_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	WatchdogConfig     WatchdogConfig     `json:"watchdog_config,omitempty" yaml:"watchdog_config,omitempty"`
	KeepAliveConfig    KeepAliveConfig    `json:"keepalive_config,omitempty" yaml:"keepalive_config,omitempty"`
	TargetsFile        string             `json:"targets_file,omitempty" yaml:"targets_file,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:          NewDefaultLogConfig(),
		MonitorConfig:      NewDefaultMonitorConfig(),
		FetcherConfig:      NewDefaultFetcherConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		WatchdogConfig:     NewDefaultWatchdogConfig(),
		KeepAliveConfig:    NewDefaultKeepAliveConfig(),
		TargetsFile:        "targets.yaml",
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// YAML and JSON formats. When no config file is found, defaults are returned.
// Environment variables override secrets after file parsing.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, common.WrapErrorf(err, "failed to read config file '%s'", filePath)
		}

		if err := parseConfigContent(data, filePath, cfg); err != nil {
			return nil, common.WrapError(err, "failed to parse config content")
		}
	}

	applyEnvOverrides(cfg)

	if err := resolveIntervals(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.WrapErrorf(err, "failed to unmarshal YAML from '%s'", filePath)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.WrapErrorf(err, "failed to unmarshal JSON from '%s'", filePath)
	}
	return nil
}

// applyEnvOverrides pulls secrets and deployment-specific endpoints from the
// environment. Env values win over file values so that .env stays the single
// place credentials live.
func applyEnvOverrides(cfg *GlobalConfig) {
	if v := os.Getenv("TG_BOT_TOKEN"); v != "" {
		cfg.NotificationConfig.TelegramBotToken = v
	}
	if v := os.Getenv("TG_CHAT_ID"); v != "" {
		cfg.NotificationConfig.TelegramChatID = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.NotificationConfig.DiscordWebhookURL = v
	}
	if v := os.Getenv("EMAIL"); v != "" {
		cfg.FetcherConfig.LoginEmail = v
	}
	if v := os.Getenv("PASSWORD"); v != "" {
		cfg.FetcherConfig.LoginPassword = v
	}
	if v := os.Getenv("LOGIN_URL"); v != "" {
		cfg.FetcherConfig.LoginURL = v
		cfg.KeepAliveConfig.LoginURL = v
	}
	if v := os.Getenv("PING_NEXT"); v != "" {
		cfg.KeepAliveConfig.PingURL = v
	}
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		cfg.MonitorConfig.DefaultIntervalRaw = v
	}
}

// resolveIntervals parses raw interval strings into durations.
func resolveIntervals(cfg *GlobalConfig) error {
	if cfg.MonitorConfig.DefaultIntervalRaw != "" {
		d, err := ParseInterval(cfg.MonitorConfig.DefaultIntervalRaw)
		if err != nil {
			return common.WrapError(err, "invalid monitor_config.default_interval")
		}
		cfg.MonitorConfig.DefaultInterval = d
	}
	return nil
}
