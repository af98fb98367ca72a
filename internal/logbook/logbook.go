// Package logbook implements the plain-text run log every pipeline component
// appends diagnostics and generator output to.
package logbook

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
)

// DefaultFileName is the log file created in the working directory.
const DefaultFileName = "LogFile.txt"

// Separator opens every diagnostic block.
const Separator = "\n\n======================\n"

// Logbook appends to a single text file. Writes reopen the file each time so
// the log stays readable while a long generator run is in progress.
type Logbook struct {
	path string
	mu   sync.Mutex
}

// New creates (or truncates) the log file at path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("truncate log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close log file: %w", err)
	}
	return &Logbook{path: path}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Write appends p verbatim. It implements io.Writer.
func (l *Logbook) Write(p []byte) (int, error) {
	if l == nil {
		return len(p), nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return 0, err
	}
	n, werr := f.Write(p)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return n, werr
}

// Append writes s, logging (not returning) any failure.
func (l *Logbook) Append(s string) {
	if _, err := l.Write([]byte(s)); err != nil {
		slog.Warn("Failed to append to log file", logfields.Path(l.Path()), logfields.Error(err))
	}
}

// Line appends one line of captured process output followed by a blank line.
func (l *Logbook) Line(s string) {
	l.Append(s + "\n\n")
}

// Diagnostic appends a separator, an upper-case heading and optional body text.
func (l *Logbook) Diagnostic(heading string, body ...string) {
	var b strings.Builder
	b.WriteString(Separator)
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, part := range body {
		b.WriteString(part)
		if !strings.HasSuffix(part, "\n") {
			b.WriteString("\n")
		}
	}
	l.Append(b.String())
}

// Errorf appends a diagnostic whose body is the error text.
func (l *Logbook) Errorf(heading string, err error, format string, args ...any) {
	body := []string{fmt.Sprintf(format, args...)}
	if err != nil {
		body = append(body, err.Error())
	}
	l.Diagnostic(heading, body...)
}
