package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/config"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/generator"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logbook"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/metrics"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/notify"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/pipeline"
)

// Global carries process-wide state into commands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file (default: config.xml in the working directory, then beside the executable)"`
	LogFile   string           `name:"log-file" help:"Run log, truncated at start" default:"LogFile.txt"`
	EnvFile   string           `name:"env-file" help:"Environment file loaded before the configuration is read" default:".env"`
	HistoryDB string           `name:"history-db" help:"SQLite database recording every run"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Generate and combine the SDK documentation (default)"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Daemon  DaemonCmd  `cmd:"" help:"Run the combine on a schedule or when the configuration changes"`
	History HistoryCmd `cmd:"" help:"List recent runs from the history database"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// PipelineFlags are shared by every command that runs the pipeline.
type PipelineFlags struct {
	Output        string        `short:"o" help:"Directory receiving the BFGSDK tree (default: beside the executable)"`
	ScriptName    string        `name:"script" help:"Generation script looked up in each SDK directory" default:"generate_docs.sh"`
	ScriptTimeout time.Duration `name:"script-timeout" help:"Kill a generation script after this long (0 disables)" default:"0s"`
	MissingScript string        `name:"missing-script" help:"What to do when an SDK has no generation script: ignore, warn or fail" default:"ignore"`
	WriteIndex    bool          `name:"write-index" help:"Render BFGSDK/index.html linking every platform"`
	IndexTitle    string        `name:"index-title" help:"Title of the landing page" default:"SDK Documentation"`
	NATSURL       string        `name:"nats-url" help:"Publish a run-completed event to this NATS server"`
	NATSSubject   string        `name:"nats-subject" help:"Subject for run-completed events" default:"doxycombine.runs.completed"`
}

// session holds everything a pipeline run needs, opened once per command.
type session struct {
	configPath string
	book       *logbook.Logbook
	registry   *prom.Registry
	store      history.Store
	notifier   notify.Notifier
	pipeline   *pipeline.Pipeline
}

func openSession(root *CLI, flags *PipelineFlags) (*session, error) {
	if root.EnvFile != "" {
		if _, err := config.LoadDotEnv(root.EnvFile); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(root.EnvFile), logfields.Error(err))
		}
	}

	policy, err := generator.ParseMissingScriptPolicy(flags.MissingScript)
	if err != nil {
		return nil, errors.ValidationError("invalid --missing-script value").WithCause(err).Build()
	}

	book, err := logbook.New(root.LogFile)
	if err != nil {
		return nil, errors.FileSystemError("failed to open log file").
			WithCause(err).
			WithContext("path", root.LogFile).
			Build()
	}

	s := &session{
		configPath: config.ResolvePath(root.Config),
		book:       book,
		registry:   prom.NewRegistry(),
		store:      history.NoopStore{},
		notifier:   notify.NoopNotifier{},
	}

	if root.HistoryDB != "" {
		store, err := history.NewSQLiteStore(root.HistoryDB)
		if err != nil {
			slog.Warn("Run history disabled", logfields.Path(root.HistoryDB), logfields.Error(err))
		} else {
			s.store = store
		}
	}
	if flags.NATSURL != "" {
		n, err := notify.NewNATSNotifier(flags.NATSURL, flags.NATSSubject)
		if err != nil {
			slog.Warn("Run notifications disabled", logfields.Error(err))
		} else {
			s.notifier = n
		}
	}

	output := flags.Output
	if output == "" {
		output = config.ExecutableDir()
	}

	runner := generator.NewInvoker(book, generator.Options{
		ScriptName:    flags.ScriptName,
		MissingScript: policy,
		Timeout:       flags.ScriptTimeout,
	})
	s.pipeline = pipeline.New(book, pipeline.Options{
		ConfigPath: s.configPath,
		OutputDir:  output,
		WriteIndex: flags.WriteIndex,
		IndexTitle: flags.IndexTitle,
	},
		pipeline.WithRunner(runner),
		pipeline.WithRecorder(metrics.NewPrometheusRecorder(s.registry)),
		pipeline.WithHistory(s.store),
		pipeline.WithNotifier(s.notifier),
	)

	slog.Debug("Session ready",
		logfields.Path(s.configPath),
		logfields.Dest(output),
		slog.String("log_file", book.Path()))
	return s, nil
}

func (s *session) Close() {
	s.notifier.Close()
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close history store", logfields.Error(err))
	}
}
