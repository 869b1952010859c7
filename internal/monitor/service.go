package monitor

import (
	"context"
	"errors"
	"time"

	"pagewatcher/internal/config"
	"pagewatcher/internal/datastore"
	"pagewatcher/internal/differ"
	"pagewatcher/internal/models"
	"pagewatcher/internal/notifier"

	"github.com/rs/zerolog"
)

// ContentFetcher retrieves the current content for a target.
type ContentFetcher interface {
	Fetch(ctx context.Context, target models.MonitoredTarget) models.FetchOutcome
}

// ChangeArchiver records detected changes for posterity. Archive failures
// never block the pipeline.
type ChangeArchiver interface {
	Append(record models.ChangeRecord) error
}

// Service orchestrates the evaluation of monitored targets: fetch, normalize,
// compare against the stored snapshot, persist, notify.
type Service struct {
	cfg             *config.MonitorConfig
	logger          zerolog.Logger
	fetcher         ContentFetcher
	normalizer      *differ.Normalizer
	engine          *differ.Engine
	store           models.SnapshotStore
	archive         ChangeArchiver
	notifier        notifier.Notifier
	failures        *FailureTracker
	mutexes         *datastore.TargetMutexManager
	heartbeat       *Heartbeat
	notifyOnFailure bool
}

// NewService creates a new monitoring Service.
func NewService(
	cfg *config.MonitorConfig,
	nCfg config.NotificationConfig,
	contentFetcher ContentFetcher,
	store models.SnapshotStore,
	archive ChangeArchiver,
	alertNotifier notifier.Notifier,
	baseLogger zerolog.Logger,
) *Service {
	instanceLogger := baseLogger.With().Str("component", "MonitoringService").Logger()

	return &Service{
		cfg:             cfg,
		logger:          instanceLogger,
		fetcher:         contentFetcher,
		normalizer:      differ.NewNormalizer(),
		engine:          differ.NewEngine(baseLogger, cfg.MaxDiffLines),
		store:           store,
		archive:         archive,
		notifier:        alertNotifier,
		failures:        NewFailureTracker(cfg.FailureThreshold),
		mutexes:         datastore.NewTargetMutexManager(baseLogger),
		heartbeat:       NewHeartbeat(cfg.HeartbeatFile, baseLogger),
		notifyOnFailure: nCfg.NotifyOnFailure,
	}
}

// EvaluateTarget runs one round for a single target: fetch, compare, persist,
// notify. Rounds for the same target never overlap; if one is still running
// this tick is skipped. Called from the scheduler's workers.
func (s *Service) EvaluateTarget(ctx context.Context, target models.MonitoredTarget) {
	if !s.mutexes.TryLock(target.ID) {
		s.logger.Warn().Str("target_id", target.ID).Msg("Previous evaluation still in flight, skipping tick")
		return
	}
	defer s.mutexes.Unlock(target.ID)

	roundCtx, cancel := context.WithTimeout(ctx, s.cfg.CheckTimeout())
	defer cancel()

	s.logger.Info().Str("target_id", target.ID).Str("url", target.URL).Msg("Checking target")

	outcome := s.fetcher.Fetch(roundCtx, target)
	switch outcome.Status {
	case models.FetchSuccess:
		s.handleSuccess(roundCtx, target, outcome)
	case models.FetchTransientFailure:
		s.handleTransientFailure(target, outcome)
	case models.FetchAuthRequired, models.FetchPermanentFailure:
		s.handlePermanentFailure(target, outcome)
	}

	s.heartbeat.Touch()
}

// handleSuccess runs the diff pipeline on fetched content.
func (s *Service) handleSuccess(ctx context.Context, target models.MonitoredTarget, outcome models.FetchOutcome) {
	rule := differ.ExtractionRule{Selector: target.Selector, Regexp: target.ExtractRegexp}
	normalized, err := s.normalizer.Normalize(outcome.Content, outcome.ContentType, rule)
	if err != nil {
		// A broken extraction rule is configuration, not weather.
		s.logger.Error().Err(err).Str("target_id", target.ID).Msg("Failed to normalize content")
		s.handlePermanentFailure(target, models.NewFetchPermanentFailure(err.Error()))
		return
	}

	previous, err := s.store.Get(target.ID)
	if err != nil && !errors.Is(err, models.ErrSnapshotNotFound) {
		s.logger.Error().Err(err).Str("target_id", target.ID).Msg("Failed to read snapshot, aborting round")
		return
	}
	if errors.Is(err, models.ErrSnapshotNotFound) {
		previous = nil
	}

	result := s.engine.Compare(previous, normalized)
	switch result.Outcome {
	case differ.Unchanged:
		s.logger.Info().Str("target_id", target.ID).Msg("No change detected")

	case differ.NoBaseline:
		s.logger.Info().Str("target_id", target.ID).Msg("Storing first version of target")
		if !s.putSnapshot(target, result.Fingerprint, normalized) {
			return
		}

	case differ.Changed:
		s.logger.Info().
			Str("target_id", target.ID).
			Str("old_fingerprint", previous.Fingerprint).
			Str("new_fingerprint", result.Fingerprint).
			Msg("Detected change")
		if !s.putSnapshot(target, result.Fingerprint, normalized) {
			return
		}
		s.emitChange(ctx, target, previous.Fingerprint, result)
	}

	if s.failures.RecordSuccess(target.ID) && s.cfg.NotifyOnRecovery {
		s.notify(ctx, notifier.FormatRecoveryMessage(target))
	}
}

// putSnapshot persists the new snapshot. On a store write failure the round
// is aborted without marking the target changed or unchanged; the next tick
// retries from the old baseline.
func (s *Service) putSnapshot(target models.MonitoredTarget, fingerprint, content string) bool {
	snapshot := models.Snapshot{
		TargetID:    target.ID,
		Fingerprint: fingerprint,
		Content:     content,
		CapturedAt:  time.Now(),
	}
	if err := s.store.Put(snapshot); err != nil {
		s.logger.Error().Err(err).Str("target_id", target.ID).Msg("Failed to store snapshot, aborting round")
		return false
	}
	return true
}

// emitChange produces the ChangeEvent for a detected change: archived, then
// handed to the notifier exactly once.
func (s *Service) emitChange(ctx context.Context, target models.MonitoredTarget, oldFingerprint string, result differ.CompareResult) {
	event := models.ChangeEvent{
		TargetID:       target.ID,
		TargetName:     target.DisplayName(),
		URL:            target.URL,
		OldFingerprint: oldFingerprint,
		NewFingerprint: result.Fingerprint,
		ObservedAt:     time.Now(),
		Summary:        result.Summary,
	}

	if s.archive != nil {
		record := models.ChangeRecord{
			TargetID:       event.TargetID,
			URL:            event.URL,
			OldFingerprint: event.OldFingerprint,
			NewFingerprint: event.NewFingerprint,
			ObservedAt:     event.ObservedAt,
			Summary:        event.Summary,
		}
		if err := s.archive.Append(record); err != nil {
			s.logger.Warn().Err(err).Str("target_id", target.ID).Msg("Failed to archive change record")
		}
	}

	s.notify(ctx, notifier.FormatChangeMessage(event))
}

func (s *Service) handleTransientFailure(target models.MonitoredTarget, outcome models.FetchOutcome) {
	count, escalate := s.failures.RecordTransient(target.ID)
	s.logger.Warn().
		Str("target_id", target.ID).
		Int("consecutive_failures", count).
		Str("reason", outcome.Reason).
		Msg("Transient fetch failure")

	if escalate {
		s.logger.Error().Str("target_id", target.ID).Int("consecutive_failures", count).Msg("Failure threshold reached")
		if s.notifyOnFailure {
			s.notify(context.Background(), notifier.FormatFailureMessage(target, outcome, count))
		}
	}
}

func (s *Service) handlePermanentFailure(target models.MonitoredTarget, outcome models.FetchOutcome) {
	s.logger.Error().
		Str("target_id", target.ID).
		Str("status", outcome.Status.String()).
		Str("reason", outcome.Reason).
		Msg("Permanent fetch failure")

	if s.failures.RecordPermanent(target.ID) && s.notifyOnFailure {
		s.notify(context.Background(), notifier.FormatFailureMessage(target, outcome, 0))
	}
}

// notify delivers a message. Delivery failures are logged, never propagated;
// a broken notification channel must not stall monitoring.
func (s *Service) notify(ctx context.Context, msg notifier.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("title", msg.Title).Msg("Failed to send notification")
	}
}
