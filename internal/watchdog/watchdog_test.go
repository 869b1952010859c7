package watchdog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagewatcher/internal/config"
	"pagewatcher/internal/models"
	"pagewatcher/internal/notifier"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	messages []notifier.Message
}

func (rn *recordingNotifier) Notify(_ context.Context, msg notifier.Message) error {
	rn.messages = append(rn.messages, msg)
	return nil
}

type stubHistory struct {
	records []models.ChangeRecord
	err     error
}

func (sh *stubHistory) ReadAll() ([]models.ChangeRecord, error) {
	return sh.records, sh.err
}

func testWatchdogConfig(t *testing.T) *config.WatchdogConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultWatchdogConfig()
	cfg.HeartbeatFile = filepath.Join(dir, ".last_heartbeat")
	cfg.LogFile = filepath.Join(dir, "monitor.log")
	cfg.SummaryStateFile = filepath.Join(dir, ".last_summary")
	// Disable the process-table scan; it has its own coverage via Run below.
	cfg.ProcessName = ""
	return &cfg
}

func touchFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestWatchdog_MissingHeartbeatIsAnIssue(t *testing.T) {
	cfg := testWatchdogConfig(t)
	wd := NewWatchdog(cfg, nil, nil, time.Hour, zerolog.Nop())

	issue := wd.checkHeartbeat()

	assert.Contains(t, issue, "does not exist")
}

func TestWatchdog_StaleHeartbeatIsAnIssue(t *testing.T) {
	cfg := testWatchdogConfig(t)
	touchFile(t, cfg.HeartbeatFile, time.Now().Add(-3*time.Hour))
	wd := NewWatchdog(cfg, nil, nil, time.Hour, zerolog.Nop())

	issue := wd.checkHeartbeat()

	assert.Contains(t, issue, "stale")
}

func TestWatchdog_FreshHeartbeatPasses(t *testing.T) {
	cfg := testWatchdogConfig(t)
	touchFile(t, cfg.HeartbeatFile, time.Now())
	wd := NewWatchdog(cfg, nil, nil, time.Hour, zerolog.Nop())

	assert.Empty(t, wd.checkHeartbeat())
}

func TestWatchdog_MissingLogFileIsNotAnIssue(t *testing.T) {
	cfg := testWatchdogConfig(t)
	wd := NewWatchdog(cfg, nil, nil, time.Hour, zerolog.Nop())

	assert.Empty(t, wd.checkLogErrors())
}

func TestWatchdog_ErrorDensityAboveThresholdIsAnIssue(t *testing.T) {
	cfg := testWatchdogConfig(t)
	cfg.MaxRecentErrors = 2

	var lines []string
	for i := 0; i < 5; i++ {
		lines = append(lines, `{"level":"error","message":"boom"}`)
	}
	lines = append(lines, `{"level":"info","message":"fine"}`)
	require.NoError(t, os.WriteFile(cfg.LogFile, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	wd := NewWatchdog(cfg, nil, nil, time.Hour, zerolog.Nop())
	issue := wd.checkLogErrors()

	assert.Contains(t, issue, "Found 5 errors")
}

func TestWatchdog_FewErrorsPass(t *testing.T) {
	cfg := testWatchdogConfig(t)

	content := `{"level":"info","message":"ok"}` + "\n" + `{"level":"error","message":"one-off"}` + "\n"
	require.NoError(t, os.WriteFile(cfg.LogFile, []byte(content), 0644))

	wd := NewWatchdog(cfg, nil, nil, time.Hour, zerolog.Nop())

	assert.Empty(t, wd.checkLogErrors())
}

func TestWatchdog_RunAggregatesIssuesIntoOneAlert(t *testing.T) {
	cfg := testWatchdogConfig(t)
	cfg.ProcessName = "definitely-not-a-running-process-name"
	// No heartbeat file, no process: both issues land in a single message.
	sink := &recordingNotifier{}
	wd := NewWatchdog(cfg, sink, nil, time.Hour, zerolog.Nop())

	issues, err := wd.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, issues, 2)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, notifier.KindAlert, sink.messages[0].Kind)
	assert.Contains(t, sink.messages[0].Body, "not running")
	assert.Contains(t, sink.messages[0].Body, "does not exist")
}

func TestWatchdog_HealthyRunSendsNothing(t *testing.T) {
	cfg := testWatchdogConfig(t)
	touchFile(t, cfg.HeartbeatFile, time.Now())
	sink := &recordingNotifier{}
	wd := NewWatchdog(cfg, sink, nil, time.Hour, zerolog.Nop())

	issues, err := wd.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Empty(t, sink.messages)
}

func TestWatchdog_HealthyRunSendsWeeklySummary(t *testing.T) {
	cfg := testWatchdogConfig(t)
	touchFile(t, cfg.HeartbeatFile, time.Now())
	sink := &recordingNotifier{}
	history := &stubHistory{records: []models.ChangeRecord{
		{TargetID: "a", ObservedAt: time.Now().Add(-2 * time.Hour)},
		{TargetID: "b", ObservedAt: time.Now().Add(-3 * 24 * time.Hour)},
		{TargetID: "c", ObservedAt: time.Now().Add(-30 * 24 * time.Hour)},
	}}
	wd := NewWatchdog(cfg, sink, history, time.Hour, zerolog.Nop())

	issues, err := wd.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, notifier.KindHeartbeat, sink.messages[0].Kind)
	assert.Contains(t, sink.messages[0].Body, "2 change(s) detected in the past week")

	// The state file now records the send; an immediate second run stays quiet.
	_, statErr := os.Stat(cfg.SummaryStateFile)
	require.NoError(t, statErr)

	_, err = wd.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, sink.messages, 1)
}

func TestWatchdog_SummaryWaitsOutTheInterval(t *testing.T) {
	cfg := testWatchdogConfig(t)
	touchFile(t, cfg.HeartbeatFile, time.Now())
	touchFile(t, cfg.SummaryStateFile, time.Now().Add(-24*time.Hour))
	sink := &recordingNotifier{}
	wd := NewWatchdog(cfg, sink, &stubHistory{}, time.Hour, zerolog.Nop())

	_, err := wd.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sink.messages)
}

func TestWatchdog_SummaryDueAfterInterval(t *testing.T) {
	cfg := testWatchdogConfig(t)
	touchFile(t, cfg.HeartbeatFile, time.Now())
	touchFile(t, cfg.SummaryStateFile, time.Now().Add(-8*24*time.Hour))
	sink := &recordingNotifier{}
	wd := NewWatchdog(cfg, sink, &stubHistory{}, time.Hour, zerolog.Nop())

	_, err := wd.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, notifier.KindHeartbeat, sink.messages[0].Kind)
	assert.Contains(t, sink.messages[0].Body, "0 change(s)")
}

func TestWatchdog_UnhealthyRunSkipsSummary(t *testing.T) {
	cfg := testWatchdogConfig(t)
	// No heartbeat file: the run reports an issue and the summary stays due.
	sink := &recordingNotifier{}
	wd := NewWatchdog(cfg, sink, &stubHistory{}, time.Hour, zerolog.Nop())

	issues, err := wd.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, notifier.KindAlert, sink.messages[0].Kind)
	_, statErr := os.Stat(cfg.SummaryStateFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTailLines_ReturnsTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("line\n")
	}
	b.WriteString("last line\n")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))

	lines, err := tailLines(path, 10)

	require.NoError(t, err)
	assert.Len(t, lines, 10)
	assert.Equal(t, "last line", lines[len(lines)-1])
}

func TestTailLines_ShortFileReturnsAllLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644))

	lines, err := tailLines(path, 100)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestTailLines_MissingFileReturnsError(t *testing.T) {
	_, err := tailLines(filepath.Join(t.TempDir(), "absent"), 10)
	assert.True(t, os.IsNotExist(err))
}
