package notifier

import (
	"strings"
	"testing"
	"time"

	"pagewatcher/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatChangeMessage_EmbedsDiffBlock(t *testing.T) {
	msg := FormatChangeMessage(models.ChangeEvent{
		TargetID:   "example_com",
		TargetName: "Example",
		URL:        "https://example.com",
		ObservedAt: time.Now(),
		Summary:    "- old price\n+ new price",
	})

	assert.Equal(t, KindChange, msg.Kind)
	assert.Contains(t, msg.Title, "Change detected: Example")
	assert.Contains(t, msg.Body, "https://example.com")
	assert.Contains(t, msg.Body, "```diff")
	assert.Contains(t, msg.Body, "- old price")
}

func TestFormatChangeMessage_FallsBackToTargetID(t *testing.T) {
	msg := FormatChangeMessage(models.ChangeEvent{TargetID: "example_com"})

	assert.Contains(t, msg.Title, "example_com")
}

func TestFormatFailureMessage_TransientShowsStreak(t *testing.T) {
	target := models.MonitoredTarget{ID: "t", Name: "Example", URL: "https://example.com"}
	outcome := models.NewFetchTransientFailure(503, "HTTP 503")

	msg := FormatFailureMessage(target, outcome, 3)

	assert.Equal(t, KindAlert, msg.Kind)
	assert.Contains(t, msg.Body, "3 consecutive failed checks")
	assert.Contains(t, msg.Body, "HTTP 503")
}

func TestFormatFailureMessage_PermanentShowsReason(t *testing.T) {
	target := models.MonitoredTarget{ID: "t", URL: "https://example.com"}
	outcome := models.NewFetchPermanentFailure("login failed")

	msg := FormatFailureMessage(target, outcome, 0)

	assert.Contains(t, msg.Body, "login failed")
	assert.NotContains(t, msg.Body, "consecutive")
}

func TestFormatRecoveryMessage(t *testing.T) {
	target := models.MonitoredTarget{ID: "t", Name: "Example", URL: "https://example.com"}

	msg := FormatRecoveryMessage(target)

	assert.Equal(t, KindRecovery, msg.Kind)
	assert.Contains(t, msg.Title, "Recovered: Example")
	assert.Contains(t, msg.Body, "succeeding again")
}

func TestFormatWatchdogAlert_ListsAllIssues(t *testing.T) {
	issues := []string{"process not running", "heartbeat stale"}

	msg := FormatWatchdogAlert(issues)

	assert.Equal(t, KindAlert, msg.Kind)
	for _, issue := range issues {
		assert.Contains(t, msg.Body, issue)
	}
	assert.True(t, strings.HasSuffix(msg.Body, "Check the server!"))
}
