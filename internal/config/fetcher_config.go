package config

import "time"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// FetcherConfig defines configuration for the HTTP fetcher, including the
// optional authenticated-session flow for login-gated targets.
type FetcherConfig struct {
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds,omitempty" yaml:"http_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	// Login endpoint plus credentials for auth-required targets. Credentials
	// are normally supplied via the EMAIL / PASSWORD / LOGIN_URL environment
	// variables rather than the config file.
	LoginURL      string `json:"login_url,omitempty" yaml:"login_url,omitempty" validate:"omitempty,url"`
	LoginEmail    string `json:"login_email,omitempty" yaml:"login_email,omitempty"`
	LoginPassword string `json:"-" yaml:"-"`
}

// NewDefaultFetcherConfig creates default fetcher configuration
func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		HTTPTimeoutSeconds: 30,
		UserAgent:          defaultUserAgent,
		InsecureSkipVerify: false,
	}
}

// HTTPTimeout returns the fetch timeout as a duration.
func (c FetcherConfig) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
