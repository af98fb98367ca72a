// Package sdkrepo reads source-control metadata for an SDK checkout.
package sdkrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when the directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Head describes the checked-out revision of an SDK.
type Head struct {
	Commit string
	Branch string
}

// Short returns the abbreviated commit hash.
func (h Head) Short() string {
	if len(h.Commit) > 8 {
		return h.Commit[:8]
	}
	return h.Commit
}

// ReadHead opens the repository containing dir (searching parent directories)
// and returns its HEAD commit. Branch is empty for a detached HEAD.
func ReadHead(dir string) (Head, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Head{}, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return Head{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return Head{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	head := Head{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, nil
}
