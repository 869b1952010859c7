package watchdog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"pagewatcher/internal/config"
	"pagewatcher/internal/models"
	"pagewatcher/internal/notifier"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
)

// summaryInterval is how often the watchdog sends its "still alive" summary
// while the monitor stays healthy.
const summaryInterval = 7 * 24 * time.Hour

// ChangeHistory reads the archived change records the summary counts over.
type ChangeHistory interface {
	ReadAll() ([]models.ChangeRecord, error)
}

// Watchdog performs an external health check of the monitor process: is it
// running, is its heartbeat fresh, is its log free of recent errors. Meant to
// run from cron or a systemd timer, independent of the monitor itself.
type Watchdog struct {
	cfg             *config.WatchdogConfig
	logger          zerolog.Logger
	notifier        notifier.Notifier
	history         ChangeHistory
	maxHeartbeatAge time.Duration
}

// NewWatchdog creates a Watchdog. maxHeartbeatAge should come from
// WatchdogConfig.MaxHeartbeatAge so it tracks the monitor's check interval.
// history may be nil, disabling the periodic summary.
func NewWatchdog(cfg *config.WatchdogConfig, alertNotifier notifier.Notifier, history ChangeHistory, maxHeartbeatAge time.Duration, baseLogger zerolog.Logger) *Watchdog {
	return &Watchdog{
		cfg:             cfg,
		logger:          baseLogger.With().Str("component", "Watchdog").Logger(),
		notifier:        alertNotifier,
		history:         history,
		maxHeartbeatAge: maxHeartbeatAge,
	}
}

// Run executes all health checks once. Issues are aggregated into a single
// alert so a dead process does not produce three separate pings. Returns the
// issues found; an empty slice means healthy.
func (w *Watchdog) Run(ctx context.Context) ([]string, error) {
	var issues []string

	if issue := w.checkProcess(ctx); issue != "" {
		issues = append(issues, issue)
	}
	if issue := w.checkHeartbeat(); issue != "" {
		issues = append(issues, issue)
	}
	if issue := w.checkLogErrors(); issue != "" {
		issues = append(issues, issue)
	}

	if len(issues) == 0 {
		w.logger.Info().Msg("All health checks passed")
		w.maybeSendSummary(ctx)
		return nil, nil
	}

	w.logger.Error().Strs("issues", issues).Msg("Health checks failed")
	if w.notifier != nil {
		if err := w.notifier.Notify(ctx, notifier.FormatWatchdogAlert(issues)); err != nil {
			return issues, err
		}
	}
	return issues, nil
}

// checkProcess scans the process table for a command line mentioning the
// monitor's process name. An empty name disables the check. The watchdog's
// own process is skipped so it never matches itself when both binaries share
// a name prefix.
func (w *Watchdog) checkProcess(ctx context.Context) string {
	if w.cfg.ProcessName == "" {
		return ""
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("Failed to list processes")
		return fmt.Sprintf("Could not inspect process table: %v", err)
	}

	self := int32(os.Getpid())
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		if strings.Contains(cmdline, w.cfg.ProcessName) && !strings.Contains(cmdline, "watchdog") {
			w.logger.Debug().Int32("pid", p.Pid).Str("cmdline", cmdline).Msg("Monitor process found")
			return ""
		}
	}
	return fmt.Sprintf("Monitor process %q is not running", w.cfg.ProcessName)
}

// checkHeartbeat verifies the heartbeat file exists and was touched recently.
func (w *Watchdog) checkHeartbeat() string {
	info, err := os.Stat(w.cfg.HeartbeatFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Heartbeat file %s does not exist", w.cfg.HeartbeatFile)
		}
		return fmt.Sprintf("Could not read heartbeat file %s: %v", w.cfg.HeartbeatFile, err)
	}

	age := time.Since(info.ModTime())
	if age > w.maxHeartbeatAge {
		return fmt.Sprintf("Heartbeat is stale: last update %s ago (max %s)", age.Round(time.Second), w.maxHeartbeatAge)
	}
	w.logger.Debug().Dur("heartbeat_age", age).Msg("Heartbeat is fresh")
	return ""
}

// checkLogErrors tails the monitor's log and flags an unusual density of
// error-level lines. A missing log file is not an issue on its own; the
// heartbeat check covers a monitor that never started.
func (w *Watchdog) checkLogErrors() string {
	lines, err := tailLines(w.cfg.LogFile, w.cfg.LogTailLines)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug().Str("log_file", w.cfg.LogFile).Msg("Log file not found, skipping error density check")
			return ""
		}
		return fmt.Sprintf("Could not read log file %s: %v", w.cfg.LogFile, err)
	}

	errorCount := 0
	for _, line := range lines {
		if isErrorLine(line) {
			errorCount++
		}
	}
	if errorCount > w.cfg.MaxRecentErrors {
		return fmt.Sprintf("Found %d errors in the last %d log lines (max %d)", errorCount, len(lines), w.cfg.MaxRecentErrors)
	}
	return ""
}

// maybeSendSummary sends the weekly "monitor is running normally" report
// with the number of changes seen since the previous one. The state file's
// mtime records when the last summary went out, so runs from cron stay
// idempotent within the interval. Only reached after a fully healthy run.
func (w *Watchdog) maybeSendSummary(ctx context.Context) {
	if w.notifier == nil || w.history == nil || w.cfg.SummaryStateFile == "" {
		return
	}

	if info, err := os.Stat(w.cfg.SummaryStateFile); err == nil {
		if time.Since(info.ModTime()) < summaryInterval {
			return
		}
	}

	count, err := w.recentChangeCount(time.Now().Add(-summaryInterval))
	if err != nil {
		w.logger.Warn().Err(err).Msg("Could not read change history for summary")
		return
	}

	if err := w.notifier.Notify(ctx, notifier.FormatHeartbeatMessage(count)); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to deliver summary")
		return
	}
	w.logger.Info().Int("recent_changes", count).Msg("Summary sent")

	// Touch the state file only after a successful send so a delivery
	// failure retries on the next run.
	if err := os.WriteFile(w.cfg.SummaryStateFile, []byte(time.Now().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		w.logger.Warn().Err(err).Str("state_file", w.cfg.SummaryStateFile).Msg("Could not update summary state file")
	}
}

// recentChangeCount counts archived changes observed after the cutoff.
func (w *Watchdog) recentChangeCount(since time.Time) (int, error) {
	records, err := w.history.ReadAll()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range records {
		if rec.ObservedAt.After(since) {
			count++
		}
	}
	return count, nil
}

// isErrorLine matches both the JSON and console renderings of error-level
// log records.
func isErrorLine(line string) bool {
	return strings.Contains(line, `"level":"error"`) ||
		strings.Contains(line, `"level":"fatal"`) ||
		strings.Contains(line, " ERR ") ||
		strings.Contains(line, " FTL ")
}
