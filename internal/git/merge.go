package git

import (
	"context"
	"fmt"
)

// Merge merges ref into the current branch without opening an editor.
func Merge(ctx context.Context, path, ref string) error {
	if err := runGit(ctx, path, "merge", "--no-edit", ref); err != nil {
		return fmt.Errorf("merge %s: %w", ref, err)
	}
	return nil
}

// Rebase rebases the current branch onto ref.
func Rebase(ctx context.Context, path, ref string) error {
	if err := runGit(ctx, path, "rebase", ref); err != nil {
		return fmt.Errorf("rebase onto %s: %w", ref, err)
	}
	return nil
}

// ConflictedFiles lists paths with unresolved merge conflicts.
func ConflictedFiles(ctx context.Context, path string) ([]string, error) {
	out, err := outputGit(ctx, path, "diff", "--name-only", "--diff-filter=U", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	return splitNUL(out), nil
}
