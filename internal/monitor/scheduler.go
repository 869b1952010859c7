package monitor

import (
	"context"
	"sync"
	"time"

	"pagewatcher/internal/config"
	"pagewatcher/internal/models"

	"github.com/rs/zerolog"
)

// Scheduler drives periodic evaluation of monitored targets. Each target has
// its own interval; due targets are dispatched to a bounded pool of workers
// so slow fetches cannot starve the rest of the fleet.
type Scheduler struct {
	cfg     *config.MonitorConfig
	logger  zerolog.Logger
	service *Service
	targets []models.MonitoredTarget

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	active  bool
	nextDue map[string]time.Time
}

// NewScheduler creates a Scheduler for the given targets.
func NewScheduler(cfg *config.MonitorConfig, service *Service, targets []models.MonitoredTarget, baseLogger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		logger:  baseLogger.With().Str("component", "Scheduler").Logger(),
		service: service,
		targets: targets,
		nextDue: make(map[string]time.Time),
	}
}

// Start begins the scheduling loop. Every target is due immediately on
// startup. Blocks until ctx is canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	now := time.Now()
	for _, target := range s.targets {
		s.nextDue[target.ID] = now
	}
	s.mu.Unlock()

	s.logger.Info().
		Int("target_count", len(s.targets)).
		Int("max_concurrent_checks", s.workerCount()).
		Str("default_interval", config.FormatInterval(s.cfg.DefaultInterval)).
		Msg("Scheduler started")

	jobs := make(chan models.MonitoredTarget)
	for i := 0; i < s.workerCount(); i++ {
		s.wg.Add(1)
		go s.worker(jobs)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			close(jobs)
			s.wg.Wait()
			s.mu.Lock()
			s.active = false
			s.mu.Unlock()
			s.logger.Info().Msg("Scheduler stopped")
			return s.ctx.Err()
		case <-ticker.C:
			s.dispatchDue(jobs)
		}
	}
}

// dispatchDue hands every due target to the worker pool. The next due time is
// advanced before dispatch so a busy pool delays a check rather than queueing
// duplicates; in-flight overlap for the same target is rejected by the
// service's per-target lock regardless.
func (s *Scheduler) dispatchDue(jobs chan<- models.MonitoredTarget) {
	now := time.Now()
	for _, target := range s.targets {
		s.mu.Lock()
		due := s.nextDue[target.ID]
		isDue := !now.Before(due)
		if isDue {
			s.nextDue[target.ID] = now.Add(s.intervalFor(target))
		}
		s.mu.Unlock()

		if !isDue {
			continue
		}

		select {
		case jobs <- target:
		case <-s.ctx.Done():
			return
		}
	}
}

// workerCount clamps the configured pool width. Zero slips past validation
// because the field is optional, and a pool of zero workers would stall
// dispatch forever.
func (s *Scheduler) workerCount() int {
	if s.cfg.MaxConcurrentChecks <= 0 {
		return 5
	}
	return s.cfg.MaxConcurrentChecks
}

func (s *Scheduler) intervalFor(target models.MonitoredTarget) time.Duration {
	if target.Interval > 0 {
		return target.Interval
	}
	return s.cfg.DefaultInterval
}

func (s *Scheduler) worker(jobs <-chan models.MonitoredTarget) {
	defer s.wg.Done()
	for target := range jobs {
		s.service.EvaluateTarget(s.ctx, target)
	}
}

// Stop cancels the scheduling loop and waits for in-flight evaluations to
// finish, up to the given timeout.
func (s *Scheduler) Stop(timeout time.Duration) {
	s.mu.Lock()
	if !s.active || s.cancel == nil {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		stopped := !s.active
		s.mu.Unlock()
		if stopped {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	s.logger.Warn().Msg("Timed out waiting for scheduler to stop")
}
