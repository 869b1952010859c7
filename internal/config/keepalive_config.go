package config

// KeepAliveConfig defines configuration for the companion-service pinger.
// PingURL and LoginURL are normally supplied via the PING_NEXT / LOGIN_URL
// environment variables, matching the deployment's .env layout.
type KeepAliveConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	CronSchedule   string `json:"cron_schedule,omitempty" yaml:"cron_schedule,omitempty" validate:"omitempty,cronexpr"`
	PingURL        string `json:"ping_url,omitempty" yaml:"ping_url,omitempty" validate:"omitempty,url"`
	LoginURL       string `json:"login_url,omitempty" yaml:"login_url,omitempty" validate:"omitempty,url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultKeepAliveConfig creates default keep-alive configuration
func NewDefaultKeepAliveConfig() KeepAliveConfig {
	return KeepAliveConfig{
		Enabled:        false,
		CronSchedule:   "*/10 * * * *",
		TimeoutSeconds: 15,
	}
}
