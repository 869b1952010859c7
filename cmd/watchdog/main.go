package main

import (
	"context"
	"flag"
	"log"
	"os"

	"pagewatcher/internal/config"
	"pagewatcher/internal/datastore"
	"pagewatcher/internal/logger"
	"pagewatcher/internal/notifier"
	"pagewatcher/internal/watchdog"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// The watchdog is a run-once binary meant for cron: it checks that the
// monitor process is alive and healthy, alerts when it is not, and exits
// non-zero so the cron job itself shows up red.
func main() {
	_ = godotenv.Load()

	configFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for --config")
	flag.Parse()
	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}

	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] Watchdog: Could not load global config using path '%s': %v", *configFile, err)
	}

	// The watchdog writes to stderr only; appending to the monitor's log
	// would pollute its own error density check.
	logCfg := gCfg.LogConfig
	logCfg.LogFile = ""
	zLogger, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("[FATAL] Watchdog: Could not initialize logger: %v", err)
	}

	alertNotifier := buildNotifier(gCfg, zLogger)
	maxAge := gCfg.WatchdogConfig.MaxHeartbeatAge(gCfg.MonitorConfig.DefaultInterval)

	history, err := datastore.NewHistoryArchive(gCfg.StorageConfig.HistoryArchivePath, zLogger)
	if err != nil {
		log.Fatalf("[FATAL] Watchdog: Could not open change history: %v", err)
	}

	wd := watchdog.NewWatchdog(&gCfg.WatchdogConfig, alertNotifier, history, maxAge, zLogger)
	issues, err := wd.Run(context.Background())
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to deliver watchdog alert")
	}
	if len(issues) > 0 {
		os.Exit(1)
	}
}

func buildNotifier(gCfg *config.GlobalConfig, zLogger zerolog.Logger) notifier.Notifier {
	var channels []notifier.Notifier

	nCfg := gCfg.NotificationConfig
	if nCfg.TelegramBotToken != "" && nCfg.TelegramChatID != "" {
		channels = append(channels, notifier.NewTelegramNotifier(nCfg, zLogger))
	}
	if nCfg.DiscordWebhookURL != "" {
		channels = append(channels, notifier.NewDiscordNotifier(nCfg, zLogger))
	}
	if len(channels) == 0 {
		zLogger.Warn().Msg("No notification channel configured, watchdog findings will only be logged")
		return nil
	}
	return notifier.NewMultiNotifier(zLogger, channels...)
}
