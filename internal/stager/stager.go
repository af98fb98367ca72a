// Package stager copies a platform's generated documentation into its
// versioned folder in the merge workspace.
package stager

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logbook"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
)

// SearchDirName is the search-index subfolder copied alongside the top-level files.
const SearchDirName = "search"

// ErrListSearch is returned when the source exists but its search folder cannot be listed.
var ErrListSearch = errors.New("failed to list search files")

// Result summarises one staging batch.
type Result struct {
	Source      string
	Destination string
	// SourceMissing is set when the source folder did not exist.
	SourceMissing bool
	Copied        int
	Skipped       int
	// CopyErr is the failure that aborted the batch, already written to the log.
	CopyErr error
}

// OK reports whether every file was copied.
func (r Result) OK() bool {
	return !r.SourceMissing && r.CopyErr == nil
}

// Stager copies generated files and records failures in the log.
type Stager struct {
	book *logbook.Logbook
}

// New creates a stager writing diagnostics to book.
func New(book *logbook.Logbook) *Stager {
	return &Stager{book: book}
}

// Stage copies every file directly inside src into dst and every file directly
// inside src/search into dst/search, overwriting existing files.
//
// A missing src is logged as NO FILES FOUND. The first copy failure is logged as
// FILE COPY FAILED and ends the batch; the remaining files are skipped. Neither
// case returns an error. A missing search folder under an existing src does.
func (s *Stager) Stage(src, dst string) (Result, error) {
	res := Result{Source: src, Destination: dst}

	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		res.SourceMissing = true
		s.book.Diagnostic("NO FILES FOUND: " + src)
		slog.Warn("No generated files found", logfields.Source(src))
		return res, nil
	}

	top, err := listFiles(src)
	if err != nil {
		return res, fmt.Errorf("list files in %s: %w", src, err)
	}
	searchSrc := filepath.Join(src, SearchDirName)
	search, err := listFiles(searchSrc)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrListSearch, searchSrc, err)
	}

	type job struct{ from, to string }
	jobs := make([]job, 0, len(top)+len(search))
	for _, name := range top {
		jobs = append(jobs, job{filepath.Join(src, name), filepath.Join(dst, name)})
	}
	for _, name := range search {
		jobs = append(jobs, job{filepath.Join(searchSrc, name), filepath.Join(dst, SearchDirName, name)})
	}

	for i, j := range jobs {
		if err := copyFile(j.from, j.to); err != nil {
			res.CopyErr = err
			res.Skipped = len(jobs) - i
			s.book.Diagnostic(fmt.Sprintf("FILE COPY FAILED: %s : %s", src, dst), err.Error())
			slog.Error("File copy failed",
				logfields.Source(src),
				logfields.Dest(dst),
				slog.Int("skipped", res.Skipped),
				logfields.Error(err))
			return res, nil
		}
		res.Copied++
	}

	slog.Info("Staged documentation files",
		logfields.Source(src),
		logfields.Dest(dst),
		logfields.Files(res.Copied))
	return res, nil
}
