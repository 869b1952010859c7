package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"pagewatcher/internal/common"
	"pagewatcher/internal/config"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// SessionCache holds one authenticated HTTP client per target. Sessions are
// created lazily on first use and refreshed when the target rejects the
// current session. The scheduler guarantees at most one evaluation per target
// at a time, so per-target session mutation is race-free; the map itself is
// still guarded for concurrent distinct targets.
type SessionCache struct {
	cfg      *config.FetcherConfig
	logger   zerolog.Logger
	base     http.RoundTripper
	sessions map[string]*http.Client
	mu       sync.Mutex
}

// NewSessionCache creates a new session cache.
func NewSessionCache(cfg *config.FetcherConfig, base http.RoundTripper, logger zerolog.Logger) *SessionCache {
	return &SessionCache{
		cfg:      cfg,
		logger:   logger.With().Str("component", "SessionCache").Logger(),
		base:     base,
		sessions: make(map[string]*http.Client),
	}
}

// Client returns the cached session client for a target, creating and
// logging in a fresh session when none exists.
func (sc *SessionCache) Client(ctx context.Context, targetID string) (*http.Client, error) {
	sc.mu.Lock()
	client, exists := sc.sessions[targetID]
	sc.mu.Unlock()
	if exists {
		return client, nil
	}
	return sc.Refresh(ctx, targetID)
}

// Refresh discards any cached session for the target and performs a fresh
// login, caching the resulting client.
func (sc *SessionCache) Refresh(ctx context.Context, targetID string) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, common.WrapError(err, "failed to create cookie jar")
	}

	client := &http.Client{
		Transport: sc.base,
		Jar:       jar,
		Timeout:   sc.cfg.HTTPTimeout(),
	}

	if err := sc.login(ctx, client); err != nil {
		return nil, err
	}

	sc.mu.Lock()
	sc.sessions[targetID] = client
	sc.mu.Unlock()

	sc.logger.Debug().Str("target_id", targetID).Msg("Session established")
	return client, nil
}

// login submits credentials to the configured login endpoint. The session
// cookie lands in the client's jar.
func (sc *SessionCache) login(ctx context.Context, client *http.Client) error {
	if sc.cfg.LoginURL == "" || sc.cfg.LoginEmail == "" || sc.cfg.LoginPassword == "" {
		return common.ErrInvalidConfiguration
	}

	payload, err := json.Marshal(map[string]string{
		"email":    sc.cfg.LoginEmail,
		"password": sc.cfg.LoginPassword,
	})
	if err != nil {
		return common.WrapError(err, "failed to marshal login payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sc.cfg.LoginURL, bytes.NewReader(payload))
	if err != nil {
		return common.WrapError(err, "failed to create login request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", sc.cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return common.NewNetworkError(sc.cfg.LoginURL, "login request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return common.NewHTTPErrorWithURL(resp.StatusCode, fmt.Sprintf("login rejected: %s", string(body)), sc.cfg.LoginURL)
	}

	return nil
}
