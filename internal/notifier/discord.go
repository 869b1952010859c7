package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"pagewatcher/internal/common"
	"pagewatcher/internal/config"

	"github.com/rs/zerolog"
)

const (
	// Discord allows 2000 characters per message; leave headroom for the
	// error prefix added to alert messages.
	discordMaxMsgLen  = 1900
	discordHTTPWindow = 10 * time.Second
)

// discordPayload is the webhook request body.
type discordPayload struct {
	Username string `json:"username,omitempty"`
	Content  string `json:"content"`
}

// DiscordNotifier delivers messages to a Discord webhook. It acts as the
// backup channel behind Telegram.
type DiscordNotifier struct {
	webhookURL string
	username   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(cfg config.NotificationConfig, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: cfg.DiscordWebhookURL,
		username:   cfg.DiscordUsername,
		httpClient: &http.Client{Timeout: discordHTTPWindow},
		logger:     logger.With().Str("component", "DiscordNotifier").Logger(),
	}
}

// Configured reports whether a webhook URL is set.
func (dn *DiscordNotifier) Configured() bool {
	return dn.webhookURL != ""
}

// Notify posts the message to the webhook.
func (dn *DiscordNotifier) Notify(ctx context.Context, msg Message) error {
	if !dn.Configured() {
		dn.logger.Warn().Msg("Discord webhook URL is not set, skipping notification")
		return common.ErrInvalidConfiguration
	}

	// Telegram markdown mostly carries over; bold is the exception.
	text := strings.ReplaceAll(renderMessage(msg), "*", "**")
	text = strings.ReplaceAll(text, "****", "**")
	text = truncateText(text, discordMaxMsgLen)

	payload, err := json.Marshal(discordPayload{Username: dn.username, Content: text})
	if err != nil {
		return common.WrapError(err, "failed to marshal Discord payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dn.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return common.WrapError(err, "failed to create Discord request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		return common.NewNetworkError("discord webhook", "request failed", err)
	}
	defer resp.Body.Close()

	// Discord returns 204 No Content on success.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return common.NewHTTPErrorWithURL(resp.StatusCode, string(body), "discord webhook")
	}

	dn.logger.Debug().Msg("Discord message sent successfully")
	return nil
}
