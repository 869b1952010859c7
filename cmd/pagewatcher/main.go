package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"pagewatcher/internal/config"
	"pagewatcher/internal/datastore"
	"pagewatcher/internal/fetcher"
	"pagewatcher/internal/keepalive"
	"pagewatcher/internal/logger"
	"pagewatcher/internal/monitor"
	"pagewatcher/internal/notifier"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

func main() {
	fmt.Println("Page Watcher starting...")

	// Secrets come from .env in development; a missing file is fine.
	_ = godotenv.Load()

	flags := parseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.configFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.configFile, err)
	}
	if flags.targetsFile != "" {
		gCfg.TargetsFile = flags.targetsFile
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	zLogger.Info().Msg("Logger initialized successfully")

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	targets, err := config.LoadTargets(gCfg.TargetsFile, gCfg.MonitorConfig.DefaultInterval)
	if err != nil {
		zLogger.Fatal().Err(err).Str("targets_file", gCfg.TargetsFile).Msg("Could not load monitored targets")
	}
	if len(targets) == 0 {
		zLogger.Fatal().Str("targets_file", gCfg.TargetsFile).Msg("No monitored targets configured")
	}
	zLogger.Info().Int("target_count", len(targets)).Msg("Loaded monitored targets")

	alertNotifier := buildNotifier(gCfg, zLogger)

	if dir := filepath.Dir(gCfg.StorageConfig.SQLiteDBPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			zLogger.Fatal().Err(err).Str("directory", dir).Msg("Could not create snapshot database directory")
		}
	}
	store, err := datastore.NewSQLiteSnapshotStore(gCfg.StorageConfig.SQLiteDBPath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not open snapshot store")
	}
	defer store.Close()

	archive, err := datastore.NewHistoryArchive(gCfg.StorageConfig.HistoryArchivePath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not initialize history archive")
	}

	contentFetcher := fetcher.NewFetcher(&gCfg.FetcherConfig, gCfg.MonitorConfig.MaxContentSize, zLogger)
	service := monitor.NewService(&gCfg.MonitorConfig, gCfg.NotificationConfig, contentFetcher, store, archive, alertNotifier, zLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		zLogger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	if flags.runOnce {
		zLogger.Info().Msg("Running in one-shot mode")
		for _, target := range targets {
			service.EvaluateTarget(ctx, target)
		}
		zLogger.Info().Msg("One-shot run complete")
		return
	}

	pinger := keepalive.NewPinger(&gCfg.KeepAliveConfig, &gCfg.FetcherConfig, alertNotifier, zLogger)
	if err := pinger.Start(ctx); err != nil {
		zLogger.Fatal().Err(err).Msg("Could not start keep-alive pinger")
	}
	defer pinger.Stop()

	sched := monitor.NewScheduler(&gCfg.MonitorConfig, service, targets, zLogger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zLogger.Error().Err(err).Msg("Scheduler exited with error")
	}
	sched.Stop(shutdownTimeout)
	zLogger.Info().Msg("Page Watcher stopped")
}

// buildNotifier assembles the notification chain from configured channels,
// Telegram first, Discord as fallback. Returns nil when no channel is
// configured so the monitor still runs, just silently.
func buildNotifier(gCfg *config.GlobalConfig, zLogger zerolog.Logger) notifier.Notifier {
	var channels []notifier.Notifier

	nCfg := gCfg.NotificationConfig
	if nCfg.TelegramBotToken != "" && nCfg.TelegramChatID != "" {
		channels = append(channels, notifier.NewTelegramNotifier(nCfg, zLogger))
		zLogger.Info().Msg("Telegram notifications enabled")
	}
	if nCfg.DiscordWebhookURL != "" {
		channels = append(channels, notifier.NewDiscordNotifier(nCfg, zLogger))
		zLogger.Info().Msg("Discord notifications enabled")
	}

	if len(channels) == 0 {
		zLogger.Warn().Msg("No notification channel configured, changes will only be logged")
		return nil
	}
	return notifier.NewMultiNotifier(zLogger, channels...)
}
