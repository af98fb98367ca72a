package config

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the configuration file looked up when no path is given.
const DefaultFileName = "config.xml"

// ExecutableDir returns the directory containing the running binary, falling back
// to the working directory when it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		if wd, werr := os.Getwd(); werr == nil {
			return wd
		}
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// ResolvePath picks the configuration file: an explicit path wins, then
// config.xml in the working directory, then config.xml beside the executable.
// When none exists the working-directory candidate is returned so the loader
// reports it.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	local := DefaultFileName
	if wd, err := os.Getwd(); err == nil {
		local = filepath.Join(wd, DefaultFileName)
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	beside := filepath.Join(ExecutableDir(), DefaultFileName)
	if _, err := os.Stat(beside); err == nil {
		return beside
	}
	return local
}
