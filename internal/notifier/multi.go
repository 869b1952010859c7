package notifier

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// MultiNotifier tries each configured channel in order and succeeds as soon
// as one delivery succeeds. Telegram first, Discord as backup, matching the
// deployment this replaces.
type MultiNotifier struct {
	channels []Notifier
	logger   zerolog.Logger
}

// NewMultiNotifier creates a MultiNotifier over the given channels.
// Nil channels are skipped.
func NewMultiNotifier(logger zerolog.Logger, channels ...Notifier) *MultiNotifier {
	kept := make([]Notifier, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			kept = append(kept, ch)
		}
	}
	return &MultiNotifier{
		channels: kept,
		logger:   logger.With().Str("component", "MultiNotifier").Logger(),
	}
}

// Notify delivers via the first channel that accepts the message.
func (mn *MultiNotifier) Notify(ctx context.Context, msg Message) error {
	if len(mn.channels) == 0 {
		mn.logger.Warn().Msg("No notification channels configured, dropping message")
		return nil
	}

	var errs []error
	for i, ch := range mn.channels {
		err := ch.Notify(ctx, msg)
		if err == nil {
			if i > 0 {
				mn.logger.Warn().Int("fallback_index", i).Msg("Primary notification channel failed, delivered via backup")
			}
			return nil
		}
		errs = append(errs, err)
	}

	mn.logger.Error().Errs("channel_errors", errs).Msg("All notification channels failed")
	return errors.Join(errs...)
}
