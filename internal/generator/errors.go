package generator

import "errors"

var (
	// ErrScriptMissing is returned when the generation script is absent and the policy is fail.
	ErrScriptMissing = errors.New("generation script not found")
	// ErrScriptStart is returned when the script exists but could not be launched.
	ErrScriptStart = errors.New("generation script could not be started")
	// ErrScriptFailed wraps a non-zero exit (or a timeout kill) of the script.
	ErrScriptFailed = errors.New("generation script failed")
	// ErrCleanOutput is returned when the previous docs output could not be removed.
	ErrCleanOutput = errors.New("failed to clear docs output")
)
