package config

// LogConfig defines configuration for logging output.
type LogConfig struct {
	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	LogFormat  string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogFile    string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty" validate:"omitempty,min=1"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultLogConfig creates default logging configuration
func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogLevel:   "info",
		LogFormat:  "console",
		LogFile:    "monitor.log",
		MaxSizeMB:  100,
		MaxBackups: 3,
	}
}
