package git

import (
	"context"
	"fmt"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// AddForce stages files even when they are ignored.
func AddForce(ctx context.Context, path string, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--force", "--"}, files...)
	if err := runGit(ctx, path, args...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func HasStagedChanges(ctx context.Context, path string) (bool, error) {
	err := runGit(ctx, path, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	if cmd.ExitCode(err) == 1 {
		return true, nil
	}
	return false, fmt.Errorf("failed to diff index: %w", err)
}

// Commit records the index with message. Commit hooks are not run.
func Commit(ctx context.Context, path, message string) error {
	if err := runGit(ctx, path, "commit", "--no-verify", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
