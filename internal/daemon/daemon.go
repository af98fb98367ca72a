// Package daemon keeps the combine pipeline running in the background: on a
// cron schedule, when the config file changes, or on request over HTTP.
// Runs never overlap.
package daemon

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/pipeline"
)

// Trigger names why a run was started.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSchedule Trigger = "schedule"
	TriggerConfig   Trigger = "config_change"
	TriggerHTTP     Trigger = "http"
)

// Runner executes one pipeline run. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// Options configures a Daemon.
type Options struct {
	// Schedule is a five-field cron expression; empty disables scheduled runs.
	Schedule string
	// ConfigPath is watched for changes when Watch is set.
	ConfigPath string
	Watch      bool
	// Debounce delays a config-triggered run until writes settle.
	Debounce time.Duration
	// HTTPAddr enables the status endpoints; empty disables them.
	HTTPAddr   string
	RunOnStart bool
}

// Status is a snapshot of the daemon state served on /status.
type Status struct {
	StartedAt   time.Time    `json:"started_at"`
	Running     bool         `json:"running"`
	Runs        int64        `json:"runs"`
	LastTrigger Trigger      `json:"last_trigger,omitempty"`
	LastRun     *history.Run `json:"last_run,omitempty"`
}

// Daemon serialises pipeline runs coming from several triggers.
type Daemon struct {
	opts     Options
	runner   Runner
	store    history.Store
	gatherer prom.Gatherer

	runMu   sync.Mutex
	running atomic.Bool
	runs    atomic.Int64

	stateMu     sync.RWMutex
	startedAt   time.Time
	lastTrigger Trigger
	lastRun     *history.Run

	// bg tracks runs started asynchronously over HTTP.
	bg sync.WaitGroup
}

// New creates a daemon. A nil store or gatherer leaves /runs or /metrics empty.
func New(opts Options, runner Runner, store history.Store, gatherer prom.Gatherer) *Daemon {
	if store == nil {
		store = history.NoopStore{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}
	return &Daemon{
		opts:      opts,
		runner:    runner,
		store:     store,
		gatherer:  gatherer,
		startedAt: time.Now(),
	}
}

// RunOnce executes the pipeline, waiting for any run already in progress.
func (d *Daemon) RunOnce(ctx context.Context, trigger Trigger) (*pipeline.Report, error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.running.Store(true)
	defer d.running.Store(false)

	slog.Info("Daemon run triggered", slog.String("trigger", string(trigger)))
	report, err := d.runner.Run(ctx)
	d.runs.Add(1)

	d.stateMu.Lock()
	d.lastTrigger = trigger
	if report != nil {
		run := report.Run
		d.lastRun = &run
	}
	d.stateMu.Unlock()

	if err != nil {
		slog.Error("Daemon run failed", slog.String("trigger", string(trigger)), logfields.Error(err))
	}
	return report, err
}

// Status returns the current state.
func (d *Daemon) Status() Status {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	return Status{
		StartedAt:   d.startedAt,
		Running:     d.running.Load(),
		Runs:        d.runs.Load(),
		LastTrigger: d.lastTrigger,
		LastRun:     d.lastRun,
	}
}

// Serve starts every enabled trigger and blocks until ctx is cancelled.
func (d *Daemon) Serve(ctx context.Context) error {
	if d.opts.Schedule == "" && !d.opts.Watch && d.opts.HTTPAddr == "" {
		return errors.DaemonError("nothing to do: set a schedule, enable watching or an HTTP address").Build()
	}

	var sched *Scheduler
	if d.opts.Schedule != "" {
		s, err := NewScheduler(d)
		if err != nil {
			return err
		}
		if err := s.Schedule(ctx, d.opts.Schedule); err != nil {
			_ = s.Stop()
			return err
		}
		s.Start()
		sched = s
	}

	var watcher *ConfigWatcher
	if d.opts.Watch {
		w, err := NewConfigWatcher(d.opts.ConfigPath, d.opts.Debounce, func() {
			_, _ = d.RunOnce(ctx, TriggerConfig)
		})
		if err == nil {
			err = w.Start(ctx)
			if err != nil {
				_ = w.Stop()
			}
		}
		if err != nil {
			d.stopScheduler(sched)
			return errors.DaemonError("failed to watch config").WithCause(err).Build()
		}
		watcher = w
	}

	var srv *http.Server
	srvErr := make(chan error, 1)
	if d.opts.HTTPAddr != "" {
		srv = &http.Server{
			Addr:              d.opts.HTTPAddr,
			Handler:           d.Router(ctx),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("Daemon HTTP server listening", slog.String("addr", d.opts.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				srvErr <- err
			}
		}()
	}

	if d.opts.RunOnStart {
		_, _ = d.RunOnce(ctx, TriggerStartup)
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-srvErr:
		serveErr = errors.DaemonError("HTTP server failed").WithCause(err).Build()
	}

	slog.Info("Daemon shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown", logfields.Error(err))
		}
		cancel()
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			slog.Warn("Config watcher shutdown", logfields.Error(err))
		}
	}
	d.stopScheduler(sched)
	d.bg.Wait()
	return serveErr
}

func (d *Daemon) stopScheduler(s *Scheduler) {
	if s == nil {
		return
	}
	if err := s.Stop(); err != nil {
		slog.Warn("Scheduler shutdown", logfields.Error(err))
	}
}

// triggerAsync starts a run in the background unless one is already running.
func (d *Daemon) triggerAsync(ctx context.Context, trigger Trigger) bool {
	if !d.running.CompareAndSwap(false, true) {
		return false
	}
	d.bg.Add(1)
	go func() {
		defer d.bg.Done()
		_, _ = d.RunOnce(ctx, trigger)
	}()
	return true
}
