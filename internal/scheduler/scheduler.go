package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. It receives the scheduler's context,
// which is cancelled on shutdown.
type Job func(ctx context.Context)

// Scheduler repeats a Job on a cron schedule. Runs never overlap: a tick
// that fires while the previous run is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger
}

// New validates spec (standard five-field cron syntax or descriptors such as
// "@daily" and "@every 1h") and returns a scheduler for job.
func New(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{cron: c, spec: spec, job: job, logger: logger}, nil
}

// Start runs the job on schedule until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.job(ctx) }); err != nil {
		return fmt.Errorf("add export job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.spec)

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("scheduler stopped")
	return nil
}
