package notifier

import (
	"context"
	"unicode/utf8"
)

// MessageKind classifies a notification for formatting purposes.
type MessageKind int

const (
	// KindChange announces a detected content change.
	KindChange MessageKind = iota
	// KindAlert announces a failure (escalated transient, permanent, watchdog).
	KindAlert
	// KindRecovery announces a target returning to healthy checks.
	KindRecovery
	// KindHeartbeat carries periodic "still alive" reports.
	KindHeartbeat
)

// Message is a formatted notification ready for delivery.
type Message struct {
	Title string
	Body  string
	Kind  MessageKind
}

// truncateText caps text at max bytes without splitting a multi-byte rune;
// a cut mid-rune would produce invalid UTF-8 that the chat APIs reject.
func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// Notifier delivers human-readable alerts. Implementations must be safe for
// concurrent use; delivery failure is reported via the error return and is
// never fatal to the monitoring loop.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
