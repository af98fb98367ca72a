package daemon

import (
	"context"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler that triggers pipeline runs.
type Scheduler struct {
	scheduler gocron.Scheduler
	daemon    *Daemon
	job       gocron.Job
}

// NewScheduler creates a scheduler bound to d.
func NewScheduler(d *Daemon) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.DaemonError("failed to create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s, daemon: d}, nil
}

// Schedule registers the run job for a five-field cron expression. A tick that
// fires while the previous run is still going is skipped.
func (s *Scheduler) Schedule(ctx context.Context, expr string) error {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			_, _ = s.daemon.RunOnce(ctx, TriggerSchedule)
		}),
		gocron.WithName("combine"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.ValidationError("invalid schedule").
			WithCause(err).
			WithContext("schedule", expr).
			Build()
	}
	s.job = job
	return nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
	if s.job != nil {
		if next, err := s.job.NextRun(); err == nil {
			slog.Info("Next scheduled run", slog.Time("at", next))
		}
	}
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
