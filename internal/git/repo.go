package git

import (
	"context"
	"fmt"
	"path/filepath"
)

// RepoRoot returns the top-level directory of the work tree containing path.
func RepoRoot(ctx context.Context, path string) (string, error) {
	root, err := outputLine(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInRepo, err)
	}
	return filepath.FromSlash(root), nil
}

// GitCommonDir returns the absolute path of the repository's common git
// directory (shared by all worktrees).
func GitCommonDir(ctx context.Context, path string) (string, error) {
	dir, err := outputLine(ctx, path, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInRepo, err)
	}
	return filepath.FromSlash(dir), nil
}

// GitPath resolves a path inside the git directory the way git itself does,
// honouring core.hooksPath for "hooks" and the common dir for "info/exclude".
func GitPath(ctx context.Context, path, name string) (string, error) {
	p, err := outputLine(ctx, path, "rev-parse", "--path-format=absolute", "--git-path", name)
	if err != nil {
		return "", fmt.Errorf("resolve git path %s: %w", name, err)
	}
	return filepath.FromSlash(p), nil
}

// RepoName returns the folder name of the repository root.
func RepoName(root string) string {
	return filepath.Base(root)
}
