package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/metrics"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/summary"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	PipelineFlags `embed:""`

	Strict      bool   `help:"Exit non-zero when the configuration is incomplete or a generation script fails"`
	MetricsFile string `name:"metrics-file" help:"Write run metrics in Prometheus text format to this file"`
	NoSummary   bool   `name:"no-summary" help:"Do not print the run summary"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.run(ctx, g, root)
}

func (r *RunCmd) run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(root, &r.PipelineFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	report, runErr := s.pipeline.Run(ctx)

	if r.MetricsFile != "" {
		if err := metrics.WriteTextfile(r.MetricsFile, s.registry); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(r.MetricsFile), logfields.Error(err))
		}
	}
	if !r.NoSummary && report != nil && len(report.Run.Platforms) > 0 {
		_, _ = fmt.Fprint(g.out(), summary.Render(report.Run, s.book.Path()))
	}

	if runErr != nil {
		if errors.HasCategory(runErr, errors.CategoryConfig) && !r.Strict {
			slog.Warn("Configuration incomplete, nothing was generated",
				logfields.Path(s.configPath),
				slog.String("log_file", s.book.Path()))
			return nil
		}
		return runErr
	}
	if r.Strict {
		return report.GenerateErr()
	}
	return nil
}
