// Package pipeline runs one documentation combine: load the locations, read
// the SDK versions, rebuild the merge workspace, run each SDK's generation
// script and copy the results into their versioned folders.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/config"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/doxyfile"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/generator"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logbook"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/metrics"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/notify"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/sdkrepo"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/siteindex"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/stager"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/workspace"
)

// DefaultIndexTitle heads the landing page written with WriteIndex.
const DefaultIndexTitle = "SDK Documentation"

// Per-platform statuses stored in history and shown in the summary.
const (
	StatusOK             = "ok"
	StatusNoFiles        = "no_files"
	StatusCopyFailed     = "copy_failed"
	StatusGenerateFailed = "generate_failed"
)

// Options configures a Pipeline.
type Options struct {
	ConfigPath string
	// OutputDir holds the BFGSDK merge workspace.
	OutputDir string
	// WriteIndex renders BFGSDK/index.html after staging.
	WriteIndex bool
	IndexTitle string
}

// Pipeline wires the run stages together. A Pipeline is not safe for
// concurrent Run calls; the daemon serialises them.
type Pipeline struct {
	opts      Options
	book      *logbook.Logbook
	runner    generator.Runner
	stager    *stager.Stager
	extractor doxyfile.Extractor
	recorder  metrics.Recorder
	store     history.Store
	notifier  notify.Notifier
	newID     func() string
	now       func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithRunner replaces the default script invoker.
func WithRunner(r generator.Runner) Option {
	return func(p *Pipeline) { p.runner = r }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithHistory sets the store every finished run is recorded in.
func WithHistory(s history.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithNotifier sets where run-completed events are published.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithExtractor overrides the Doxyfile marker lookup.
func WithExtractor(e doxyfile.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// New creates a pipeline logging to book.
func New(book *logbook.Logbook, opts Options, options ...Option) *Pipeline {
	if opts.IndexTitle == "" {
		opts.IndexTitle = DefaultIndexTitle
	}
	p := &Pipeline{
		opts:      opts,
		book:      book,
		runner:    generator.NewInvoker(book, generator.Options{}),
		stager:    stager.New(book),
		extractor: doxyfile.Extractor{Marker: doxyfile.DefaultMarker},
		recorder:  metrics.NoopRecorder{},
		store:     history.NoopStore{},
		notifier:  notify.NoopNotifier{},
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Report is the outcome of a single run.
type Report struct {
	Run     history.Run
	Targets []platform.Target
	Outcome metrics.RunOutcome
	// GenerateErrs holds the script failures that were logged and skipped.
	GenerateErrs []error
	// IndexPath is set when a landing page was written.
	IndexPath string
}

// Degraded reports whether any platform did not complete cleanly.
func (r *Report) Degraded() bool {
	for _, p := range r.Run.Platforms {
		if p.Status != StatusOK {
			return true
		}
	}
	return len(r.GenerateErrs) > 0
}

// GenerateErr joins the script failures, or returns nil when all scripts succeeded.
func (r *Report) GenerateErr() error {
	if len(r.GenerateErrs) == 0 {
		return nil
	}
	return errors.GenerateError("documentation script failed").
		WithCause(stderrors.Join(r.GenerateErrs...)).
		Build()
}

type runState struct {
	report   *Report
	builder  *workspace.Builder
	versions map[platform.Platform]string
	rows     map[platform.Platform]*history.PlatformRun
}

// Run executes one combine. The returned error is a ClassifiedError for the
// paths that end a run early: an incomplete configuration (nothing on disk is
// touched) or a filesystem failure. Script and copy failures are logged,
// recorded on the report and do not stop the run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := p.now()
	report := &Report{Run: history.Run{
		ID:         p.newID(),
		StartedAt:  started,
		ConfigPath: p.opts.ConfigPath,
	}}
	st := &runState{
		report:   report,
		builder:  workspace.NewBuilder(p.opts.OutputDir),
		versions: make(map[platform.Platform]string),
		rows:     make(map[platform.Platform]*history.PlatformRun),
	}

	slog.Info("Starting documentation run",
		logfields.RunID(report.Run.ID),
		logfields.Path(p.opts.ConfigPath))

	err := execute(ctx, p.recorder, st, []stage{
		{name: StageConfig, run: p.loadConfig},
		{name: StageVersions, run: p.readVersions},
		{name: StageWorkspace, run: p.rebuildWorkspace},
		{name: StageGenerate, run: p.generate},
		{name: StageStage, run: p.stageFiles},
		{name: StageIndex, run: p.writeIndex, skip: func(*runState) bool { return !p.opts.WriteIndex }},
	})

	p.finish(ctx, st, err)
	return report, err
}

func (p *Pipeline) loadConfig(_ context.Context, st *runState) (bool, error) {
	values := config.LoadLocations(p.opts.ConfigPath, p.book)
	locations, err := config.FromValues(values)
	if err != nil {
		return false, errors.ConfigError("configuration incomplete").
			WithCause(err).
			WithContext("config", p.opts.ConfigPath).
			Build()
	}
	st.report.Targets = locations.Targets()
	for _, t := range st.report.Targets {
		st.rows[t.Platform] = &history.PlatformRun{Platform: string(t.Platform), Status: StatusOK}
	}
	return false, nil
}

func (p *Pipeline) readVersions(_ context.Context, st *runState) (bool, error) {
	for i := range st.report.Targets {
		t := &st.report.Targets[i]
		path := t.DoxyfilePath()
		version, err := p.extractor.Extract(path)
		if err != nil {
			p.book.Errorf("VERSION READ FAILED", err, "%s", path)
			return false, errors.FileSystemError("failed to read SDK version").
				WithCause(err).
				WithContext("platform", string(t.Platform)).
				WithContext("path", path).
				Build()
		}
		t.Version = version
		st.versions[t.Platform] = version
		row := st.rows[t.Platform]
		row.Version = version

		if head, err := sdkrepo.ReadHead(t.SDKDir); err == nil {
			row.Commit = head.Commit
		} else {
			slog.Debug("No SDK commit recorded", logfields.Platform(string(t.Platform)), logfields.Error(err))
		}

		slog.Info("Read SDK version",
			logfields.Platform(string(t.Platform)),
			logfields.Version(version),
			logfields.Commit(row.Commit))
	}
	return false, nil
}

func (p *Pipeline) rebuildWorkspace(_ context.Context, st *runState) (bool, error) {
	if err := st.builder.Rebuild(st.versions); err != nil {
		return false, errors.FileSystemError("failed to rebuild merge workspace").
			WithCause(err).
			WithContext("path", st.builder.Root()).
			Build()
	}
	return false, nil
}

func (p *Pipeline) generate(ctx context.Context, st *runState) (bool, error) {
	warned := false
	for _, t := range st.report.Targets {
		row := st.rows[t.Platform]
		res, err := p.runner.Generate(ctx, t)
		row.ScriptRan = res.Ran
		row.ExitCode = res.ExitCode
		if err == nil {
			if res.Ran {
				p.recorder.IncGeneratorResult(string(t.Platform), true)
			}
			continue
		}
		if stderrors.Is(err, generator.ErrCleanOutput) {
			return false, errors.FileSystemError("failed to clear docs output").
				WithCause(err).
				WithContext("platform", string(t.Platform)).
				Build()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		warned = true
		row.Status = StatusGenerateFailed
		st.report.GenerateErrs = append(st.report.GenerateErrs, err)
		p.recorder.IncGeneratorResult(string(t.Platform), false)
		p.book.Errorf("GENERATION FAILED", err, "%s", t.Platform.DisplayName())
		slog.Warn("Documentation script failed, continuing",
			logfields.Platform(string(t.Platform)),
			logfields.ExitCode(res.ExitCode),
			logfields.Error(err))
	}
	return warned, nil
}

func (p *Pipeline) stageFiles(_ context.Context, st *runState) (bool, error) {
	warned := false
	for _, t := range st.report.Targets {
		row := st.rows[t.Platform]
		dst := st.builder.VersionDir(t.Platform, t.Version)
		res, err := p.stager.Stage(t.DocsPath(), dst)
		row.FilesCopied = res.Copied
		p.recorder.AddFilesStaged(string(t.Platform), res.Copied)
		if err != nil {
			return false, errors.FileSystemError("failed to stage documentation").
				WithCause(err).
				WithContext("platform", string(t.Platform)).
				WithContext("source", res.Source).
				Build()
		}
		switch {
		case res.SourceMissing:
			warned = true
			if row.Status == StatusOK {
				row.Status = StatusNoFiles
			}
		case res.CopyErr != nil:
			warned = true
			if row.Status == StatusOK {
				row.Status = StatusCopyFailed
			}
		}
		slog.Info("Staged documentation",
			logfields.Platform(string(t.Platform)),
			logfields.Version(t.Version),
			logfields.Dest(dst),
			logfields.Files(res.Copied))
	}
	return warned, nil
}

func (p *Pipeline) writeIndex(_ context.Context, st *runState) (bool, error) {
	entries := make([]siteindex.Entry, 0, len(st.report.Targets))
	for _, t := range st.report.Targets {
		entries = append(entries, siteindex.Entry{Platform: t.Platform, Version: t.Version})
	}
	path, err := siteindex.Write(st.builder.Root(), p.opts.IndexTitle, entries)
	if err != nil {
		slog.Warn("Failed to write landing page", logfields.Error(err))
		return true, nil
	}
	st.report.IndexPath = path
	return false, nil
}

// finish derives the outcome and hands the run to metrics, history and notification.
func (p *Pipeline) finish(ctx context.Context, st *runState, runErr error) {
	report := st.report
	run := &report.Run
	run.FinishedAt = p.now()
	for _, t := range report.Targets {
		if row, ok := st.rows[t.Platform]; ok {
			run.Platforms = append(run.Platforms, *row)
		}
	}

	switch {
	case runErr != nil && errors.HasCategory(runErr, errors.CategoryConfig):
		report.Outcome = metrics.OutcomeAborted
	case runErr != nil:
		report.Outcome = metrics.OutcomeFailed
	case report.Degraded():
		report.Outcome = metrics.OutcomeWarning
	default:
		report.Outcome = metrics.OutcomeSuccess
	}
	run.Outcome = string(report.Outcome)
	if runErr != nil {
		run.Error = runErr.Error()
	}

	duration := run.FinishedAt.Sub(run.StartedAt)
	p.recorder.ObserveRunDuration(duration)
	p.recorder.IncRunOutcome(report.Outcome)
	p.recorder.SetLastRunTimestamp(run.FinishedAt)

	// Bookkeeping must not be cut short by a cancelled run context.
	bg := context.WithoutCancel(ctx)
	if err := p.store.Record(bg, *run); err != nil {
		slog.Warn("Failed to record run history", logfields.RunID(run.ID), logfields.Error(err))
	}
	if err := p.notifier.Publish(bg, *run); err != nil {
		slog.Warn("Failed to publish run notification", logfields.RunID(run.ID), logfields.Error(err))
	}

	slog.Info("Documentation run finished",
		logfields.RunID(run.ID),
		slog.String("outcome", run.Outcome),
		logfields.DurationMS(float64(duration.Milliseconds())))
}
