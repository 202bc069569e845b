package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/log"
)

// ErrNoBackup is returned when the local-only branch does not exist yet.
var ErrNoBackup = errors.New("no backup found; run 'forkflow backup' first")

// List returns the files stored on the local-only branch.
func List(ctx context.Context, repo, branch string) ([]git.TreeEntry, error) {
	exists, err := git.BranchExists(ctx, repo, branch)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNoBackup
	}
	return git.ListTree(ctx, repo, branch)
}

// RestoreOptions configures Restore.
type RestoreOptions struct {
	Repo   string
	Branch string
	// Files limits the restore to these paths. Empty restores everything.
	Files []string
	// Force overwrites differing files without asking.
	Force bool
	// ConfirmOverwrite is asked for each differing file when Force is off.
	// A nil func skips differing files.
	ConfirmOverwrite func(path string) (bool, error)
}

// RestoreResult lists what Restore did per file.
type RestoreResult struct {
	Written   []string `json:"written" yaml:"written"`
	Skipped   []string `json:"skipped" yaml:"skipped"`
	Unchanged []string `json:"unchanged" yaml:"unchanged"`
}

// Restore writes files from the local-only branch into the work tree without
// switching branches.
func Restore(ctx context.Context, opts RestoreOptions) (RestoreResult, error) {
	l := log.FromContext(ctx)
	var res RestoreResult

	entries, err := List(ctx, opts.Repo, opts.Branch)
	if err != nil {
		return res, err
	}
	if len(opts.Files) > 0 {
		entries = slices.DeleteFunc(entries, func(e git.TreeEntry) bool {
			return !slices.Contains(opts.Files, e.Path)
		})
	}

	for _, e := range entries {
		content, err := git.ShowFile(ctx, opts.Repo, opts.Branch, e.Path)
		if err != nil {
			return res, err
		}
		target := filepath.Join(opts.Repo, filepath.FromSlash(e.Path))

		same, exists, err := compare(target, e, content)
		if err != nil {
			return res, fmt.Errorf("inspect %s: %w", e.Path, err)
		}
		if same {
			res.Unchanged = append(res.Unchanged, e.Path)
			continue
		}
		if exists && !opts.Force {
			ok := false
			if opts.ConfirmOverwrite != nil {
				if ok, err = opts.ConfirmOverwrite(e.Path); err != nil {
					return res, err
				}
			}
			if !ok {
				l.Debug("restore: skipped differing file", "file", e.Path)
				res.Skipped = append(res.Skipped, e.Path)
				continue
			}
		}

		if err := writeEntry(target, e, content); err != nil {
			return res, fmt.Errorf("write %s: %w", e.Path, err)
		}
		res.Written = append(res.Written, e.Path)
	}
	return res, nil
}

// compare reports whether target already matches the entry.
func compare(target string, e git.TreeEntry, content []byte) (same, exists bool, err error) {
	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, false, nil
		}
		return false, false, err
	}
	if e.IsSymlink() {
		if info.Mode()&os.ModeSymlink == 0 {
			return false, true, nil
		}
		link, err := os.Readlink(target)
		return err == nil && link == string(content), true, err
	}
	if !info.Mode().IsRegular() {
		return false, true, nil
	}
	current, err := os.ReadFile(target)
	if err != nil {
		return false, true, err
	}
	// git records only the executable bit.
	executable := info.Mode().Perm()&0o111 != 0
	return bytes.Equal(current, content) && executable == (e.FileMode() == 0o755), true, nil
}

func writeEntry(target string, e git.TreeEntry, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if e.IsSymlink() {
		return os.Symlink(string(content), target)
	}
	if err := os.WriteFile(target, content, e.FileMode()); err != nil {
		return err
	}
	// umask may have stripped bits
	return os.Chmod(target, e.FileMode())
}
