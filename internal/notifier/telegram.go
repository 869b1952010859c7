package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pagewatcher/internal/common"
	"pagewatcher/internal/config"

	"github.com/rs/zerolog"
)

const (
	telegramAPIBase    = "https://api.telegram.org"
	telegramMaxMsgLen  = 4000
	telegramHTTPWindow = 10 * time.Second
)

// TelegramNotifier delivers messages through the Telegram Bot API. Messages
// are sent as Markdown first; if Telegram rejects the formatting the send is
// retried once as plain text.
type TelegramNotifier struct {
	botToken   string
	chatID     string
	apiBase    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewTelegramNotifier creates a new TelegramNotifier.
func NewTelegramNotifier(cfg config.NotificationConfig, logger zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		botToken:   cfg.TelegramBotToken,
		chatID:     cfg.TelegramChatID,
		apiBase:    telegramAPIBase,
		httpClient: &http.Client{Timeout: telegramHTTPWindow},
		logger:     logger.With().Str("component", "TelegramNotifier").Logger(),
	}
}

// Configured reports whether the notifier has the credentials it needs.
func (tn *TelegramNotifier) Configured() bool {
	return tn.botToken != "" && tn.chatID != ""
}

// Notify sends the message to the configured chat.
func (tn *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	if !tn.Configured() {
		tn.logger.Warn().Msg("Telegram bot token or chat ID is not set")
		return common.ErrInvalidConfiguration
	}

	text := truncateText(renderMessage(msg), telegramMaxMsgLen)

	if err := tn.send(ctx, text, "Markdown"); err != nil {
		// Markdown rendering often fails on diff content with unbalanced
		// formatting characters. Retry once without parse_mode.
		tn.logger.Warn().Err(err).Msg("Telegram send with markdown failed, retrying as plain text")
		return tn.send(ctx, text, "")
	}
	return nil
}

func (tn *TelegramNotifier) send(ctx context.Context, text, parseMode string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", tn.apiBase, tn.botToken)

	form := url.Values{}
	form.Set("chat_id", tn.chatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")
	if parseMode != "" {
		form.Set("parse_mode", parseMode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return common.WrapError(err, "failed to create Telegram request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tn.httpClient.Do(req)
	if err != nil {
		// Keep the bot token out of error text.
		return common.NewNetworkError("telegram sendMessage", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return common.NewHTTPErrorWithURL(resp.StatusCode, string(body), "telegram sendMessage")
	}

	tn.logger.Debug().Msg("Telegram message sent successfully")
	return nil
}
