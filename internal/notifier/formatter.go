package notifier

import (
	"fmt"
	"strings"

	"pagewatcher/internal/models"
)

// renderMessage flattens a Message into the text sent over the wire.
func renderMessage(msg Message) string {
	if msg.Title == "" {
		return msg.Body
	}
	return msg.Title + "\n\n" + msg.Body
}

// FormatChangeMessage builds the notification for a detected change,
// embedding the diff summary in a fenced block.
func FormatChangeMessage(event models.ChangeEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", event.URL)
	if event.Summary != "" {
		fmt.Fprintf(&b, "```diff\n%s\n```", event.Summary)
	}

	return Message{
		Title: fmt.Sprintf("🚨 *Change detected: %s*", displayName(event.TargetName, event.TargetID)),
		Body:  b.String(),
		Kind:  KindChange,
	}
}

// FormatFailureMessage builds the alert for a permanent failure or an
// escalated run of transient failures.
func FormatFailureMessage(target models.MonitoredTarget, outcome models.FetchOutcome, consecutive int) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", target.URL)
	switch outcome.Status {
	case models.FetchTransientFailure:
		fmt.Fprintf(&b, "%d consecutive failed checks. Last error: %s", consecutive, outcome.Reason)
	default:
		fmt.Fprintf(&b, "Check failed (%s): %s", outcome.Status, outcome.Reason)
	}

	return Message{
		Title: fmt.Sprintf("🚨 *Check failing: %s*", target.DisplayName()),
		Body:  b.String(),
		Kind:  KindAlert,
	}
}

// FormatRecoveryMessage builds the notice sent when an escalated target
// returns to healthy checks.
func FormatRecoveryMessage(target models.MonitoredTarget) Message {
	return Message{
		Title: fmt.Sprintf("✅ *Recovered: %s*", target.DisplayName()),
		Body:  fmt.Sprintf("%s\n\nChecks are succeeding again.", target.URL),
		Kind:  KindRecovery,
	}
}

// FormatWatchdogAlert builds the aggregated watchdog alert.
func FormatWatchdogAlert(issues []string) Message {
	return Message{
		Title: "🚨 *Page Watcher Alert*",
		Body:  strings.Join(issues, "\n") + "\n\nCheck the server!",
		Kind:  KindAlert,
	}
}

// FormatHeartbeatMessage builds the periodic summary sent while the monitor
// is healthy.
func FormatHeartbeatMessage(changeCount int) Message {
	return Message{
		Title: "💓 *Page Watcher Heartbeat*",
		Body:  fmt.Sprintf("%d change(s) detected in the past week, monitor is running normally.", changeCount),
		Kind:  KindHeartbeat,
	}
}

// FormatKeepAliveAlert builds the alert for failed keep-alive checks.
func FormatKeepAliveAlert(errs []string) Message {
	return Message{
		Title: "*Render App Monitor Alert*",
		Body:  strings.Join(errs, "\n"),
		Kind:  KindAlert,
	}
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
