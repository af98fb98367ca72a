package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPlatform   = "platform"
	KeyVersion    = "version"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeySource     = "source"
	KeyDest       = "destination"
	KeyScript     = "script"
	KeyFiles      = "files"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyCommit     = "commit"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Script(p string) slog.Attr       { return slog.String(KeyScript, p) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Elapsed reports the time since start as a duration_ms attribute.
func Elapsed(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
