package keepalive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pagewatcher/internal/common"
	"pagewatcher/internal/config"
	"pagewatcher/internal/notifier"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pinger keeps a hosted deployment from idling out by hitting its health
// endpoint on a cron schedule, optionally exercising the login flow as well.
// Failures are reported through the shared notifier.
type Pinger struct {
	cfg      *config.KeepAliveConfig
	fetchCfg *config.FetcherConfig
	logger   zerolog.Logger
	notifier notifier.Notifier
	client   *http.Client
	cron     *cron.Cron
}

type pingResponse struct {
	Status string `json:"status"`
}

// NewPinger creates a keep-alive Pinger. fetchCfg supplies the login
// credentials; the ping endpoint itself is unauthenticated.
func NewPinger(cfg *config.KeepAliveConfig, fetchCfg *config.FetcherConfig, alertNotifier notifier.Notifier, baseLogger zerolog.Logger) *Pinger {
	return &Pinger{
		cfg:      cfg,
		fetchCfg: fetchCfg,
		logger:   baseLogger.With().Str("component", "KeepAlivePinger").Logger(),
		notifier: alertNotifier,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Start registers the ping job on its cron schedule and fires one ping
// immediately so a misconfigured endpoint is caught at startup rather than on
// the first scheduled run.
func (p *Pinger) Start(ctx context.Context) error {
	if !p.cfg.Enabled {
		p.logger.Info().Msg("Keep-alive pinger disabled")
		return nil
	}
	if p.cfg.PingURL == "" {
		return common.WrapError(common.ErrInvalidConfiguration, "keep-alive enabled but ping_url is empty")
	}

	p.cron = cron.New()
	_, err := p.cron.AddFunc(p.cfg.CronSchedule, func() {
		p.RunOnce(ctx)
	})
	if err != nil {
		return common.WrapError(err, "failed to register keep-alive schedule")
	}

	p.cron.Start()
	p.logger.Info().Str("schedule", p.cfg.CronSchedule).Str("ping_url", p.cfg.PingURL).Msg("Keep-alive pinger started")

	go p.RunOnce(ctx)
	return nil
}

// Stop halts the cron schedule and waits for an in-flight ping to finish.
func (p *Pinger) Stop() {
	if p.cron == nil {
		return
	}
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
	p.logger.Info().Msg("Keep-alive pinger stopped")
}

// RunOnce performs a single keep-alive round: health ping plus, when
// configured, a login exercise.
func (p *Pinger) RunOnce(ctx context.Context) {
	var issues []string

	if err := p.ping(ctx); err != nil {
		p.logger.Error().Err(err).Str("ping_url", p.cfg.PingURL).Msg("Keep-alive ping failed")
		issues = append(issues, fmt.Sprintf("Ping %s failed: %v", p.cfg.PingURL, err))
	} else {
		p.logger.Info().Str("ping_url", p.cfg.PingURL).Msg("Keep-alive ping OK")
	}

	if p.cfg.LoginURL != "" {
		if err := p.exerciseLogin(ctx); err != nil {
			p.logger.Error().Err(err).Str("login_url", p.cfg.LoginURL).Msg("Keep-alive login failed")
			issues = append(issues, fmt.Sprintf("Login %s failed: %v", p.cfg.LoginURL, err))
		} else {
			p.logger.Info().Str("login_url", p.cfg.LoginURL).Msg("Keep-alive login OK")
		}
	}

	if len(issues) > 0 && p.notifier != nil {
		if err := p.notifier.Notify(ctx, notifier.FormatKeepAliveAlert(issues)); err != nil {
			p.logger.Error().Err(err).Msg("Failed to send keep-alive alert")
		}
	}
}

// ping expects the health endpoint to answer 200 with {"status":"ok"}.
func (p *Pinger) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.PingURL, nil)
	if err != nil {
		return common.WrapError(err, "failed to build ping request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return common.NewNetworkError(p.cfg.PingURL, "ping request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return common.NewHTTPErrorWithURL(resp.StatusCode, "unexpected status", p.cfg.PingURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return common.WrapError(err, "failed to read ping response")
	}

	var parsed pingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return common.WrapError(err, "ping response is not valid JSON")
	}
	if parsed.Status != "ok" {
		return fmt.Errorf("ping returned status %q, expected \"ok\"", parsed.Status)
	}
	return nil
}

// exerciseLogin posts the configured credentials to the login endpoint so the
// auth path stays warm too.
func (p *Pinger) exerciseLogin(ctx context.Context) error {
	if p.fetchCfg.LoginEmail == "" || p.fetchCfg.LoginPassword == "" {
		return common.WrapError(common.ErrInvalidConfiguration, "login_url set but credentials are missing")
	}

	payload, err := json.Marshal(map[string]string{
		"email":    p.fetchCfg.LoginEmail,
		"password": p.fetchCfg.LoginPassword,
	})
	if err != nil {
		return common.WrapError(err, "failed to encode login payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.LoginURL, bytes.NewReader(payload))
	if err != nil {
		return common.WrapError(err, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return common.NewNetworkError(p.cfg.LoginURL, "login request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return common.NewHTTPErrorWithURL(resp.StatusCode, "login did not return 200", p.cfg.LoginURL)
	}
	return nil
}
