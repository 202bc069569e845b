package git

import (
	"context"
	"errors"
	"os/exec"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// ErrNotInRepo indicates the working directory is not inside a git work tree.
var ErrNotInRepo = errors.New("not inside a git repository")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// IsInsideRepo returns true if path is inside a git work tree.
func IsInsideRepo(ctx context.Context, path string) bool {
	out, err := outputLine(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}
