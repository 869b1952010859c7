package config

// NotificationConfig defines configuration for notification delivery.
// Telegram is the primary channel; a Discord webhook acts as backup.
// Tokens and IDs are normally supplied via the TG_BOT_TOKEN / TG_CHAT_ID /
// DISCORD_WEBHOOK_URL environment variables.
type NotificationConfig struct {
	TelegramBotToken  string `json:"-" yaml:"-"`
	TelegramChatID    string `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id,omitempty"`
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	DiscordUsername   string `json:"discord_username,omitempty" yaml:"discord_username,omitempty"`
	NotifyOnFailure   bool   `json:"notify_on_failure" yaml:"notify_on_failure"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		DiscordUsername: "Page Watcher",
		NotifyOnFailure: true,
	}
}
