package errors

import (
	"log/slog"
	"maps"
	"slices"
)

// ErrorCategory groups failures by the part of a run they come from. The
// category decides the process exit status.
type ErrorCategory string

const (
	// CategoryConfig covers a missing or incomplete locations file.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryFileSystem covers version reads, workspace rebuilds and staging.
	CategoryFileSystem ErrorCategory = "filesystem"
	// CategoryGenerate covers documentation scripts that failed to run or exited non-zero.
	CategoryGenerate ErrorCategory = "generate"

	CategoryStorage ErrorCategory = "storage"
	CategoryNotify  ErrorCategory = "notify"

	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   4,
	CategoryConfig:     7,
	CategoryStorage:    8,
	CategoryNotify:     8,
	CategoryInternal:   10,
	CategoryFileSystem: 11,
	CategoryGenerate:   11,
	CategoryDaemon:     12,
}

// ExitCode is the process exit status for the category; 1 when unknown.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates how far an error reaches.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // ends the run
	SeverityError   ErrorSeverity = "error"   // fails the current step
	SeverityWarning ErrorSeverity = "warning" // the run continues degraded
	SeverityInfo    ErrorSeverity = "info"
)

// Level maps the severity onto a slog level.
func (s ErrorSeverity) Level() slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ErrorContext carries the platform, path or run ID an error relates to.
type ErrorContext map[string]any

// String returns the value stored under key when it is a string.
func (c ErrorContext) String(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Merge returns a new context holding both, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if len(c) == 0 {
		return other
	}
	if len(other) == 0 {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}

// Attrs renders the context as slog attributes in key order.
func (c ErrorContext) Attrs() []slog.Attr {
	keys := slices.Sorted(maps.Keys(c))
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, c[k]))
	}
	return attrs
}
