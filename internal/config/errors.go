package config

import "errors"

var (
	// ErrMissingField reports a required configuration element that is absent.
	ErrMissingField = errors.New("missing config field")
	// ErrIncomplete reports a configuration that yielded fewer than six values.
	ErrIncomplete = errors.New("configuration incomplete")
	// ErrExists is returned by Init when the target file exists and force is false.
	ErrExists = errors.New("configuration file already exists")
)
