package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"pagewatcher/internal/common"
	"pagewatcher/internal/config"
	"pagewatcher/internal/models"

	"github.com/rs/zerolog"
)

// Fetcher retrieves the current representation of a target's content and
// classifies the result. For auth-required targets it maintains a session per
// target, refreshing it once on authentication failure before giving up.
type Fetcher struct {
	httpClient     *http.Client
	sessions       *SessionCache
	logger         zerolog.Logger
	cfg            *config.FetcherConfig
	maxContentSize int
}

// NewFetcher creates a new Fetcher.
func NewFetcher(cfg *config.FetcherConfig, maxContentSize int, logger zerolog.Logger) *Fetcher {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	fetcherLogger := logger.With().Str("component", "Fetcher").Logger()

	return &Fetcher{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.HTTPTimeout(),
		},
		sessions:       NewSessionCache(cfg, transport, fetcherLogger),
		logger:         fetcherLogger,
		cfg:            cfg,
		maxContentSize: maxContentSize,
	}
}

// Fetch retrieves the content for a target. Classification:
//   - 2xx -> Success
//   - network error / timeout / 5xx / 429 / other 4xx -> TransientFailure
//   - 401/403 -> AuthRequired; for auth-flagged targets one fresh login and
//     refetch is attempted, after which a persisting rejection becomes
//     PermanentFailure
//   - malformed URL or broken auth configuration -> PermanentFailure
func (f *Fetcher) Fetch(ctx context.Context, target models.MonitoredTarget) models.FetchOutcome {
	if _, err := url.ParseRequestURI(target.URL); err != nil {
		return models.NewFetchPermanentFailure(fmt.Sprintf("invalid target URL: %v", err))
	}

	client, outcome := f.clientFor(ctx, target)
	if outcome != nil {
		return *outcome
	}

	result := f.fetchOnce(ctx, client, target.URL)
	if result.Status != models.FetchAuthRequired || !target.AuthRequired {
		return result
	}

	// The session went stale. Refresh it once with a fresh login, then retry.
	f.logger.Info().Str("target_id", target.ID).Msg("Session rejected, re-authenticating")
	client, err := f.sessions.Refresh(ctx, target.ID)
	if err != nil {
		return f.classifyLoginError(target, err)
	}

	result = f.fetchOnce(ctx, client, target.URL)
	if result.Status == models.FetchAuthRequired {
		return models.NewFetchPermanentFailure(
			fmt.Sprintf("target still rejects authentication after re-login (HTTP %d)", result.StatusCode))
	}
	return result
}

// clientFor picks the plain client or the target's session client.
func (f *Fetcher) clientFor(ctx context.Context, target models.MonitoredTarget) (*http.Client, *models.FetchOutcome) {
	if !target.AuthRequired {
		return f.httpClient, nil
	}

	client, err := f.sessions.Client(ctx, target.ID)
	if err != nil {
		outcome := f.classifyLoginError(target, err)
		return nil, &outcome
	}
	return client, nil
}

func (f *Fetcher) classifyLoginError(target models.MonitoredTarget, err error) models.FetchOutcome {
	if errors.Is(err, common.ErrInvalidConfiguration) {
		return models.NewFetchPermanentFailure(
			fmt.Sprintf("target %s requires authentication but no login endpoint/credentials are configured", target.ID))
	}

	var httpErr *common.HTTPError
	if errors.As(err, &httpErr) {
		// The login endpoint answered and said no. Retrying with the same
		// credentials will not help.
		return models.NewFetchPermanentFailure(fmt.Sprintf("login failed: %v", err))
	}

	// Network trouble reaching the login endpoint is as transient as network
	// trouble reaching the page itself.
	return models.NewFetchTransientFailure(0, fmt.Sprintf("login attempt failed: %v", err))
}

// fetchOnce performs a single GET and classifies the response.
func (f *Fetcher) fetchOnce(ctx context.Context, client *http.Client, targetURL string) models.FetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return models.NewFetchPermanentFailure(fmt.Sprintf("creating request for %s: %v", targetURL, err))
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", targetURL).Msg("HTTP request failed")
		return models.NewFetchTransientFailure(0, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		f.logger.Warn().Str("url", targetURL).Int("status_code", resp.StatusCode).Msg("Authentication rejected")
		return models.NewFetchAuthRequired(resp.StatusCode, fmt.Sprintf("HTTP %d", resp.StatusCode))

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		f.logger.Warn().Str("url", targetURL).Int("status_code", resp.StatusCode).Msg("Received non-OK HTTP status")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return models.NewFetchTransientFailure(resp.StatusCode, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)))
	}

	if resp.ContentLength > 0 && resp.ContentLength > int64(f.maxContentSize) {
		return models.NewFetchTransientFailure(resp.StatusCode,
			fmt.Sprintf("content too large: %d bytes (max: %d bytes)", resp.ContentLength, f.maxContentSize))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxContentSize)+1))
	if err != nil {
		f.logger.Warn().Err(err).Str("url", targetURL).Msg("Failed to read response body")
		return models.NewFetchTransientFailure(resp.StatusCode, fmt.Sprintf("failed to read response body: %v", err))
	}
	if len(body) > f.maxContentSize {
		return models.NewFetchTransientFailure(resp.StatusCode,
			fmt.Sprintf("content too large: more than %d bytes", f.maxContentSize))
	}

	f.logger.Debug().
		Str("url", targetURL).
		Str("content_type", resp.Header.Get("Content-Type")).
		Int("size", len(body)).
		Msg("Content fetched successfully")

	return models.NewFetchSuccess(body, resp.Header.Get("Content-Type"), resp.StatusCode)
}
