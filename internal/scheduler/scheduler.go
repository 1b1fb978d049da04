package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/KristineNinua/ETL-Pipeline-with-Alpha-Vantage/internal/models"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context) (*models.RunSummary, error)
}

// Scheduler triggers pipeline runs on a cron schedule. Overlapping runs are
// not supported by the pipeline (they would race on the raw-store existence
// check), so a tick that arrives while a run is active is skipped.
type Scheduler struct {
	runner    Runner
	cron      *cron.Cron
	onSummary func(*models.RunSummary)

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler for the given runner. onSummary, if non-nil, is
// called with the summary of every completed run.
func New(runner Runner, onSummary func(*models.RunSummary)) *Scheduler {
	return &Scheduler{
		runner:    runner,
		cron:      cron.New(),
		onSummary: onSummary,
	}
}

// Start schedules runs at the given cron spec and begins the timer
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[Scheduler] Started with spec %q", spec)
	return nil
}

// RunOnce triggers a single pipeline run unless one is already active, in
// which case it reports whether the run was started.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[Scheduler] Previous run still active, skipping this trigger")
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	summary, err := s.runner.Run(ctx)
	if err != nil {
		log.Printf("[Scheduler] Run failed: %v", err)
	}
	if summary != nil && s.onSummary != nil {
		s.onSummary(summary)
	}
	return true
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[Scheduler] Stopped")
}
