// Package generator runs each SDK's own documentation script and captures its
// output into the run log.
package generator

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logbook"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
)

// DefaultScriptName is the script looked up inside each SDK directory.
const DefaultScriptName = "generate_docs.sh"

// maxStderrSize bounds the stderr kept for the log; the rest is counted and dropped.
const maxStderrSize = 256 << 10

// Runner abstracts how a platform's documentation is generated, so tests and
// dry runs can swap out the external script.
type Runner interface {
	Generate(ctx context.Context, target platform.Target) (Result, error)
}

// Result describes one generator invocation.
type Result struct {
	Script   string
	Ran      bool
	Lines    int
	ExitCode int
	Duration time.Duration
}

// Options configures an Invoker.
type Options struct {
	ScriptName    string
	MissingScript MissingScriptPolicy
	// Timeout kills the script after the given duration. Zero means no limit.
	Timeout time.Duration
}

// Invoker runs generate_docs.sh for a target.
type Invoker struct {
	opts Options
	book *logbook.Logbook
}

// NewInvoker creates an invoker writing script output to book.
func NewInvoker(book *logbook.Logbook, opts Options) *Invoker {
	if opts.ScriptName == "" {
		opts.ScriptName = DefaultScriptName
	}
	if opts.MissingScript == "" {
		opts.MissingScript = MissingScriptIgnore
	}
	return &Invoker{opts: opts, book: book}
}

// Generate clears the target's docs output, then runs the generation script
// from the SDK directory, streaming each stdout line into the log followed by a
// blank line. Stderr is appended under its own heading when non-empty. A
// non-zero exit is reported as ErrScriptFailed after the output was drained.
func (i *Invoker) Generate(ctx context.Context, target platform.Target) (Result, error) {
	if err := i.clearOutput(target); err != nil {
		return Result{}, err
	}

	script := filepath.Join(target.SDKDir, i.opts.ScriptName)
	res := Result{Script: script}

	if info, err := os.Stat(script); err != nil || info.IsDir() {
		return res, i.missingScript(target, script)
	}

	if i.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
		defer cancel()
	}

	// #nosec G204 -- script path comes from the tool's own configuration.
	cmd := exec.CommandContext(ctx, script)
	cmd.Dir = target.SDKDir
	cmd.WaitDelay = 5 * time.Second
	stderr := &cappedBuffer{limit: maxStderrSize}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrScriptStart, err)
	}

	start := time.Now()
	slog.Info("Running documentation script",
		logfields.Platform(string(target.Platform)),
		logfields.Script(script))
	if err := cmd.Start(); err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrScriptStart, script, err)
	}
	res.Ran = true

	lines, readErr := i.streamLines(stdout)
	res.Lines = lines
	if readErr != nil {
		slog.Warn("Stopped reading script output", logfields.Script(script), logfields.Error(readErr))
		// Keep draining so the script never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	res.Duration = time.Since(start)
	res.ExitCode = cmd.ProcessState.ExitCode()

	if s := strings.TrimRight(stderr.String(), "\n"); s != "" {
		body := []string{s}
		if stderr.dropped > 0 {
			body = append(body, fmt.Sprintf("[%d more bytes of stderr omitted]", stderr.dropped))
		}
		i.book.Diagnostic("GENERATION STDERR: "+script, body...)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) || ctx.Err() != nil {
			return res, fmt.Errorf("%w: %s (exit code %d): %w", ErrScriptFailed, script, res.ExitCode, waitErr)
		}
		return res, fmt.Errorf("%w: %s: %w", ErrScriptFailed, script, waitErr)
	}

	slog.Info("Documentation script finished",
		logfields.Platform(string(target.Platform)),
		logfields.ExitCode(res.ExitCode),
		slog.Int("lines", res.Lines),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

// clearOutput removes the docs output so the script regenerates it from scratch.
// An empty docs path, or one that contains the SDK directory, is never removed.
func (i *Invoker) clearOutput(target platform.Target) error {
	if strings.TrimSpace(target.DocsDir) == "" {
		return nil
	}
	docs := target.DocsPath()
	if contains(docs, target.SDKDir) {
		slog.Warn("Refusing to clear docs output that contains the SDK directory",
			logfields.Platform(string(target.Platform)),
			logfields.Path(docs))
		return nil
	}
	if _, err := os.Stat(docs); err != nil {
		return nil
	}
	if err := os.RemoveAll(docs); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCleanOutput, docs, err)
	}
	slog.Debug("Cleared docs output", logfields.Path(docs))
	return nil
}

// streamLines copies r into the log one line at a time, each followed by a
// blank line. Lines have no length limit; a final line without a newline is
// still logged.
func (i *Invoker) streamLines(r io.Reader) (int, error) {
	reader := bufio.NewReader(r)
	lines := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			i.book.Line(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
			lines++
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// cappedBuffer keeps the first limit bytes written to it and counts the rest.
type cappedBuffer struct {
	buf     bytes.Buffer
	limit   int
	dropped int64
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	room := c.limit - c.buf.Len()
	if room < 0 {
		room = 0
	}
	keep := min(room, len(p))
	c.buf.Write(p[:keep])
	c.dropped += int64(len(p) - keep)
	return len(p), nil
}

func (c *cappedBuffer) String() string { return c.buf.String() }

func (i *Invoker) missingScript(target platform.Target, script string) error {
	switch i.opts.MissingScript {
	case MissingScriptFail:
		return fmt.Errorf("%w: %s", ErrScriptMissing, script)
	case MissingScriptWarn:
		i.book.Diagnostic("GENERATION SCRIPT NOT FOUND: " + script)
		slog.Warn("Generation script not found",
			logfields.Platform(string(target.Platform)),
			logfields.Script(script))
	default:
		slog.Debug("Generation script not found, skipping",
			logfields.Platform(string(target.Platform)),
			logfields.Script(script))
	}
	return nil
}

// contains reports whether child lies inside parent or is parent itself.
func contains(parent, child string) bool {
	p, err1 := filepath.Abs(parent)
	c, err2 := filepath.Abs(child)
	if err1 != nil || err2 != nil {
		return filepath.Clean(parent) == filepath.Clean(child)
	}
	rel, err := filepath.Rel(p, c)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// NoopRunner performs no generation; useful when docs are pre-built.
type NoopRunner struct{}

func (NoopRunner) Generate(_ context.Context, target platform.Target) (Result, error) {
	slog.Debug("NoopRunner skipping generation", logfields.Platform(string(target.Platform)))
	return Result{}, nil
}
