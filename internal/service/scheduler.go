package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"clinic-archive/internal/model"
)

type archiveSweeper interface {
	Sweep(ctx context.Context, entityType model.EntityType) (model.SweepResult, error)
	PurgeExpired(ctx context.Context, entityType model.EntityType, mode model.PurgeMode, actor model.AuditActor) (int, error)
}

// Scheduler runs the startup purge and the periodic archive sweep.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
type Scheduler struct {
	archives     archiveSweeper
	schedule     string
	startupDelay time.Duration
	cron         *cron.Cron
	mu           sync.Mutex
	wg           sync.WaitGroup
	cancel       context.CancelFunc
	logger       *slog.Logger
	running      bool
	cronActive   bool
}

func NewScheduler(archives archiveSweeper, schedule string, startupDelay time.Duration) *Scheduler {
	return &Scheduler{
		archives:     archives,
		schedule:     schedule,
		startupDelay: startupDelay,
		cron:         cron.New(),
		logger:       slog.Default().With("component", "archive.scheduler"),
	}
}

// Start schedules the silent startup purge and, unless the schedule is empty,
// the cron sweep. An invalid schedule is rejected before anything runs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.schedule != "" {
		if _, err := cron.ParseStandard(s.schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.schedule != "" {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(s.schedule, func() { s.RunSweep(runCtx) }); err != nil {
			cancel()
			return fmt.Errorf("failed to schedule archive sweep: %w", err)
		}
		s.cron.Start()
		s.cronActive = true
		s.logger.Info("archive scheduler started", "schedule", s.schedule)
	} else {
		s.logger.Info("sweep schedule not configured, automatic archival disabled")
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.startupPurge(runCtx)
	}()

	s.running = true

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) startupPurge(ctx context.Context) {
	timer := time.NewTimer(s.startupDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	for _, entityType := range model.EntityTypes {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.archives.PurgeExpired(ctx, entityType, model.PurgeModeSilent, model.SystemActor); err != nil {
			s.logger.Warn("startup purge failed", "entity_type", entityType, "error", err)
		}
	}
}

// RunSweep archives inactive entities and purges expired entries for every entity type.
func (s *Scheduler) RunSweep(ctx context.Context) {
	s.logger.Info("starting scheduled archive sweep")

	for _, entityType := range model.EntityTypes {
		result, err := s.archives.Sweep(ctx, entityType)
		if err != nil {
			s.logger.Error("scheduled archive sweep failed", "entity_type", entityType, "error", err)
			continue
		}
		s.logger.Info("scheduled archive sweep completed",
			"entity_type", entityType,
			"archived", result.Archived,
			"purged", result.Purged,
		)
	}
}

// Stop cancels pending work and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	if s.cronActive {
		<-s.cron.Stop().Done()
		s.cronActive = false
	}
	s.wg.Wait()
	s.running = false
	s.logger.Info("archive scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep, nil when no cron job is active.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cronActive {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
