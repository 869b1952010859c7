package logger

import (
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pagewatcher/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates the application logger from LogConfig. Console output always
// goes to stderr; when a log file is configured it is written alongside with
// size-based rotation.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{consoleWriter(cfg.LogFormat, os.Stderr, false)}

	if cfg.LogFile != "" {
		fileWriter, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	instance := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)

	// Route the standard library logger through zerolog so stray log.Print
	// calls from dependencies end up in the same sinks.
	stdlog.SetOutput(instance)
	stdlog.SetFlags(0)

	return instance, nil
}

func parseLevel(raw string) (zerolog.Level, error) {
	if raw == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(raw))
}

func consoleWriter(format string, out io.Writer, noColor bool) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return out
	case "text":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: noColor}
	}
}

func newFileWriter(cfg config.LogConfig) (io.Writer, error) {
	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	// File output stays machine-readable regardless of the console format,
	// except explicit text format which keeps the plain rendering.
	if strings.ToLower(cfg.LogFormat) == "text" {
		return zerolog.ConsoleWriter{Out: rotating, TimeFormat: time.RFC3339, NoColor: true}, nil
	}
	return rotating, nil
}
