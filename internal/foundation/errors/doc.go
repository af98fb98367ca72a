// Package errors provides classified error primitives used across doxycombine.
//
// A ClassifiedError carries a category (config, filesystem, generate, ...) and a
// severity. The pipeline uses the category to decide whether a failure aborts a
// run, and the CLI adapter maps categories to process exit codes.
//
// Example usage:
//
//	err := errors.FileSystemError("rebuild merge workspace").
//		WithContext("path", root).
//		WithCause(err).
//		Build()
package errors
