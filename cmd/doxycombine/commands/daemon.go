package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	PipelineFlags `embed:""`

	Schedule   string        `help:"Cron expression (five fields) for periodic runs"`
	Watch      bool          `help:"Run again whenever the configuration file changes"`
	HTTPAddr   string        `name:"http-addr" help:"Serve /healthz, /status, /runs and /metrics on this address"`
	RunOnStart bool          `name:"run-on-start" help:"Run once immediately after starting"`
	Debounce   time.Duration `help:"Quiet period before a config change triggers a run" default:"2s"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(root, &d.PipelineFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	dm := daemon.New(daemon.Options{
		Schedule:   d.Schedule,
		ConfigPath: s.configPath,
		Watch:      d.Watch,
		Debounce:   d.Debounce,
		HTTPAddr:   d.HTTPAddr,
		RunOnStart: d.RunOnStart,
	}, s.pipeline, s.store, s.registry)

	slog.Info("Starting daemon",
		slog.String("schedule", d.Schedule),
		slog.Bool("watch", d.Watch),
		slog.String("http_addr", d.HTTPAddr))
	if err := dm.Serve(ctx); err != nil {
		return err
	}
	slog.Info("Daemon stopped")
	return nil
}
