package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"pagewatcher/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscordNotifier(webhookURL string) *DiscordNotifier {
	cfg := config.NewDefaultNotificationConfig()
	cfg.DiscordWebhookURL = webhookURL
	return NewDiscordNotifier(cfg, zerolog.Nop())
}

func TestDiscordNotifier_PostsJSONPayload(t *testing.T) {
	var got discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dn := newTestDiscordNotifier(server.URL)
	err := dn.Notify(context.Background(), Message{Title: "*Alert*", Body: "something happened"})

	require.NoError(t, err)
	assert.Equal(t, "Page Watcher", got.Username)
	assert.Contains(t, got.Content, "something happened")
}

func TestDiscordNotifier_ConvertsBoldMarkdown(t *testing.T) {
	var got discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dn := newTestDiscordNotifier(server.URL)
	err := dn.Notify(context.Background(), Message{Title: "*Change detected*"})

	require.NoError(t, err)
	assert.Contains(t, got.Content, "**Change detected**")
}

func TestDiscordNotifier_TruncatesLongMessages(t *testing.T) {
	var got discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dn := newTestDiscordNotifier(server.URL)
	err := dn.Notify(context.Background(), Message{Body: strings.Repeat("b", 3000)})

	require.NoError(t, err)
	assert.Len(t, got.Content, discordMaxMsgLen)
}

func TestDiscordNotifier_TruncationKeepsValidUTF8(t *testing.T) {
	var got discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dn := newTestDiscordNotifier(server.URL)
	err := dn.Notify(context.Background(), Message{Body: "x" + strings.Repeat("é", discordMaxMsgLen)})

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got.Content))
	assert.LessOrEqual(t, len(got.Content), discordMaxMsgLen)
}

func TestDiscordNotifier_RateLimitedReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	dn := newTestDiscordNotifier(server.URL)
	err := dn.Notify(context.Background(), Message{Body: "hello"})

	assert.Error(t, err)
}

func TestDiscordNotifier_UnconfiguredReturnsError(t *testing.T) {
	dn := NewDiscordNotifier(config.NewDefaultNotificationConfig(), zerolog.Nop())

	err := dn.Notify(context.Background(), Message{Body: "hello"})

	assert.Error(t, err)
}
