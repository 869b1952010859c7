package monitor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Heartbeat exposes the scheduler's liveness to the outside: every completed
// evaluation touches a well-known file whose mtime the watchdog checks.
type Heartbeat struct {
	path   string
	logger zerolog.Logger
}

// NewHeartbeat creates a heartbeat writer. An empty path disables it.
func NewHeartbeat(path string, logger zerolog.Logger) *Heartbeat {
	return &Heartbeat{
		path:   path,
		logger: logger.With().Str("component", "Heartbeat").Logger(),
	}
}

// Touch updates the heartbeat file's modification time, creating the file on
// first use. Failures are logged and swallowed; liveness reporting must never
// take down the monitor.
func (h *Heartbeat) Touch() {
	if h.path == "" {
		return
	}

	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			h.logger.Warn().Err(err).Str("path", h.path).Msg("Failed to create heartbeat directory")
			return
		}
	}

	now := time.Now()
	if err := os.Chtimes(h.path, now, now); err != nil {
		if !os.IsNotExist(err) {
			h.logger.Warn().Err(err).Str("path", h.path).Msg("Failed to touch heartbeat file")
			return
		}
		f, createErr := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY, 0644)
		if createErr != nil {
			h.logger.Warn().Err(createErr).Str("path", h.path).Msg("Failed to create heartbeat file")
			return
		}
		_ = f.Close()
	}
}
