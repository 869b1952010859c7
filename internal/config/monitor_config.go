package config

import "time"

// MonitorConfig defines configuration for the change-detection pipeline.
type MonitorConfig struct {
	DefaultIntervalRaw  string        `json:"default_interval,omitempty" yaml:"default_interval,omitempty" validate:"omitempty,interval"`
	DefaultInterval     time.Duration `json:"-" yaml:"-"`
	MaxConcurrentChecks int           `json:"max_concurrent_checks,omitempty" yaml:"max_concurrent_checks,omitempty" validate:"omitempty,min=1"`
	CheckTimeoutSeconds int           `json:"check_timeout_seconds,omitempty" yaml:"check_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	FailureThreshold    int           `json:"failure_threshold,omitempty" yaml:"failure_threshold,omitempty" validate:"omitempty,min=1"`
	NotifyOnRecovery    bool          `json:"notify_on_recovery" yaml:"notify_on_recovery"`
	MaxContentSize      int           `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"`
	MaxDiffLines        int           `json:"max_diff_lines,omitempty" yaml:"max_diff_lines,omitempty" validate:"omitempty,min=1"`
	HeartbeatFile       string        `json:"heartbeat_file,omitempty" yaml:"heartbeat_file,omitempty"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		DefaultIntervalRaw:  "3h",
		DefaultInterval:     3 * time.Hour,
		MaxConcurrentChecks: 5,
		CheckTimeoutSeconds: 60,
		FailureThreshold:    3,
		NotifyOnRecovery:    true,
		MaxContentSize:      1048576, // 1MB
		MaxDiffLines:        100,
		HeartbeatFile:       ".last_heartbeat",
	}
}

// CheckTimeout returns the per-evaluation timeout as a duration.
func (c MonitorConfig) CheckTimeout() time.Duration {
	if c.CheckTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.CheckTimeoutSeconds) * time.Second
}
