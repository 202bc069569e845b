package git

import (
	"context"
	"fmt"
	"slices"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// ListMatchingUntracked returns untracked files under root that match the
// gitignore-style patterns in excludeFile, relative to root and sorted.
// .gitignore and info/exclude are not consulted, so files hidden by them are
// still found.
func ListMatchingUntracked(ctx context.Context, root, excludeFile string) ([]string, error) {
	out, err := outputGit(ctx, root, "ls-files", "-z", "--others", "--ignored",
		"--exclude-from="+excludeFile)
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	files := splitNUL(out)
	slices.Sort(files)
	return files, nil
}

// CheckIgnore returns the paths git treats as ignored, in input order.
// Tracked paths and paths re-included by a negated pattern are left out.
func CheckIgnore(ctx context.Context, root string, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	out, err := outputGit(ctx, root, append([]string{"check-ignore", "-z", "--"}, paths...)...)
	if err != nil {
		if cmd.ExitCode(err) == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("git check-ignore: %w", err)
	}
	ignored := splitNUL(out)
	return slices.DeleteFunc(slices.Clone(paths), func(p string) bool {
		return !slices.Contains(ignored, p)
	}), nil
}
