package config

import "time"

// WatchdogConfig defines configuration for the externally-triggered liveness
// check of the monitor process.
type WatchdogConfig struct {
	ProcessName        string `json:"process_name,omitempty" yaml:"process_name,omitempty"`
	HeartbeatFile      string `json:"heartbeat_file,omitempty" yaml:"heartbeat_file,omitempty"`
	LogFile            string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	SummaryStateFile   string `json:"summary_state_file,omitempty" yaml:"summary_state_file,omitempty"`
	LogTailLines       int    `json:"log_tail_lines,omitempty" yaml:"log_tail_lines,omitempty" validate:"omitempty,min=1"`
	MaxRecentErrors    int    `json:"max_recent_errors,omitempty" yaml:"max_recent_errors,omitempty" validate:"omitempty,min=1"`
	MaxHeartbeatAgeRaw string `json:"max_heartbeat_age,omitempty" yaml:"max_heartbeat_age,omitempty" validate:"omitempty,interval"`
}

// NewDefaultWatchdogConfig creates default watchdog configuration
func NewDefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		ProcessName:      "pagewatcher",
		HeartbeatFile:    ".last_heartbeat",
		LogFile:          "monitor.log",
		SummaryStateFile: ".last_summary",
		LogTailLines:     100,
		MaxRecentErrors:  10,
	}
}

// MaxHeartbeatAge resolves the heartbeat freshness threshold. When not set
// explicitly it defaults to twice the monitor's default check interval,
// giving slow rounds headroom, with a 6 hour fallback.
func (c WatchdogConfig) MaxHeartbeatAge(defaultInterval time.Duration) time.Duration {
	if c.MaxHeartbeatAgeRaw != "" {
		if d, err := ParseInterval(c.MaxHeartbeatAgeRaw); err == nil {
			return d
		}
	}
	if defaultInterval > 0 {
		return 2 * defaultInterval
	}
	return 6 * time.Hour
}
