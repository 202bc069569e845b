package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/storage"
)

var (
	// ErrNoLocalFiles is returned when there is nothing to back up.
	ErrNoLocalFiles = errors.New("no local files to back up")
	// ErrOnLocalBranch is returned when HEAD is the local-only branch.
	ErrOnLocalBranch = errors.New("currently on the local-only branch; switch to a work branch first")
	// ErrNotIgnored is returned when a selected file is visible to git.
	ErrNotIgnored = errors.New("selected files are not ignored by git")
)

// RootMessage is the message of the first commit on a new local-only branch.
const RootMessage = "forkflow: local files"

// Options configures Backup.
type Options struct {
	// Repo is the repository root.
	Repo string
	// Branch is the local-only branch receiving the files.
	Branch string
	// Files are the selected paths, slash-separated and relative to Repo.
	Files []string
}

// Result describes a completed backup.
type Result struct {
	ID        string   `json:"id" yaml:"id"`
	Branch    string   `json:"branch" yaml:"branch"`
	Files     []string `json:"files" yaml:"files"`
	Committed bool     `json:"committed" yaml:"committed"`
	Commit    string   `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// commitMessage returns the backup commit message with its Backup-Id trailer.
func commitMessage(n int, id string) string {
	noun := "files"
	if n == 1 {
		noun = "file"
	}
	return fmt.Sprintf("backup: %d local %s\n\nBackup-Id: %s", n, noun, id)
}

// Backup commits the selected files to the local-only branch and returns to
// where the user was. On failure the steps taken so far are undone.
func Backup(ctx context.Context, opts Options) (res Result, err error) {
	l := log.FromContext(ctx)

	if len(opts.Files) == 0 {
		return Result{}, ErrNoLocalFiles
	}

	branch, err := git.CurrentBranch(ctx, opts.Repo)
	if err != nil {
		return Result{}, err
	}
	if branch == opts.Branch {
		return Result{}, ErrOnLocalBranch
	}
	// The stash would capture a visible file and the later pop would collide
	// with the copy put back from the temp dir.
	ignored, err := git.CheckIgnore(ctx, opts.Repo, opts.Files...)
	if err != nil {
		return Result{}, err
	}
	if visible := slices.DeleteFunc(slices.Clone(opts.Files), func(f string) bool {
		return slices.Contains(ignored, f)
	}); len(visible) > 0 {
		return Result{}, fmt.Errorf("%w: %s (tracked, or re-included by a .gitignore rule)",
			ErrNotIgnored, strings.Join(visible, ", "))
	}
	common, err := git.GitCommonDir(ctx, opts.Repo)
	if err != nil {
		return Result{}, err
	}
	unlock, err := storage.LockRepo(common)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	origRef := branch
	if origRef == "" {
		if origRef, err = git.HeadCommit(ctx, opts.Repo); err != nil {
			return Result{}, err
		}
	}

	// Files the local branch tracks are overwritten by git on checkout if
	// they sit in the work tree as ignored files, so they are moved aside too.
	protect := slices.Clone(opts.Files)
	exists, err := git.BranchExists(ctx, opts.Repo, opts.Branch)
	if err != nil {
		return Result{}, err
	}
	if exists {
		entries, err := git.ListTree(ctx, opts.Repo, opts.Branch)
		if err != nil {
			return Result{}, err
		}
		for _, e := range entries {
			if _, statErr := os.Lstat(filepath.Join(opts.Repo, filepath.FromSlash(e.Path))); statErr == nil {
				protect = append(protect, e.Path)
			}
		}
	}
	slices.Sort(protect)
	protect = slices.Compact(protect)

	id := uuid.NewString()
	res = Result{ID: id, Branch: opts.Branch, Files: slices.Clone(opts.Files)}

	var rb rollback
	defer func() {
		if err == nil {
			return
		}
		if rbErr := rb.run(ctx); rbErr != nil {
			err = fmt.Errorf("%w; rollback incomplete: %w", err, rbErr)
		}
	}()

	// 1. Copy files aside.
	tmp := filepath.Join(os.TempDir(), "forkflow-backup-"+id)
	if err := os.MkdirAll(tmp, 0o700); err != nil {
		return Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	filesBack := true
	rb.push("remove temp dir", func(context.Context) error {
		if !filesBack {
			return fmt.Errorf("local files kept in %s", tmp)
		}
		return os.RemoveAll(tmp)
	})
	l.Step("Saving %d file(s) to %s", len(protect), tmp)
	if err := copyAll(opts.Repo, tmp, protect); err != nil {
		return Result{}, fmt.Errorf("copy local files: %w", err)
	}

	// 2. Stash work in progress.
	stash, err := git.Stash(ctx, opts.Repo, "forkflow backup "+id)
	if err != nil {
		return Result{}, err
	}
	if stash.Stashed() {
		l.Step("Stashed uncommitted changes")
		rb.push("pop stash", func(ctx context.Context) error {
			return git.StashPop(ctx, opts.Repo, stash)
		})
	}

	// 3. Make sure the local-only branch exists.
	if !exists {
		l.Step("Creating branch %s", opts.Branch)
		if _, err := git.CreateEmptyBranch(ctx, opts.Repo, opts.Branch, RootMessage); err != nil {
			return Result{}, err
		}
	}

	// 4. Switch to it with the local files out of the way.
	filesBack = false
	rb.push("restore local files", func(context.Context) error {
		if err := copyAll(tmp, opts.Repo, protect); err != nil {
			return err
		}
		filesBack = true
		return nil
	})
	if err := removeAll(opts.Repo, protect); err != nil {
		return Result{}, fmt.Errorf("move local files aside: %w", err)
	}
	if err := git.Checkout(ctx, opts.Repo, opts.Branch); err != nil {
		return Result{}, err
	}
	rb.push("checkout "+origRef, func(ctx context.Context) error {
		return git.CheckoutForce(ctx, opts.Repo, origRef)
	})

	// 5. Commit the selection.
	if err := copyAll(tmp, opts.Repo, opts.Files); err != nil {
		return Result{}, fmt.Errorf("copy files into %s: %w", opts.Branch, err)
	}
	if err := git.AddForce(ctx, opts.Repo, opts.Files...); err != nil {
		return Result{}, err
	}
	staged, err := git.HasStagedChanges(ctx, opts.Repo)
	if err != nil {
		return Result{}, err
	}
	if staged {
		if err := git.Commit(ctx, opts.Repo, commitMessage(len(opts.Files), id)); err != nil {
			return Result{}, err
		}
		if res.Commit, err = git.HeadCommit(ctx, opts.Repo); err != nil {
			return Result{}, err
		}
		res.Committed = true
		l.Step("Committed %d file(s) to %s", len(opts.Files), opts.Branch)
	} else {
		l.Step("No changes since the last backup")
	}

	// 6. Return to the original ref and put everything back.
	if err := git.Checkout(ctx, opts.Repo, origRef); err != nil {
		return Result{}, err
	}
	rb.steps = nil

	var finishErrs []error
	if err := copyAll(tmp, opts.Repo, protect); err != nil {
		finishErrs = append(finishErrs, fmt.Errorf("put local files back (copies kept in %s): %w", tmp, err))
	}
	if err := git.StashPop(ctx, opts.Repo, stash); err != nil {
		finishErrs = append(finishErrs, err)
	}
	if len(finishErrs) > 0 {
		return res, errors.Join(finishErrs...)
	}
	if err := os.RemoveAll(tmp); err != nil {
		l.Debug("could not remove temp dir", "dir", tmp, "error", err)
	}

	if err := saveRecord(ctx, opts.Repo, res); err != nil {
		l.Debug("could not save backup record", "error", err)
	}
	return res, nil
}

// Record is the summary of the last successful backup.
type Record struct {
	Result
	Time time.Time `json:"time" yaml:"time"`
}

// recordFile is the name of the last-backup record in the state directory.
const recordFile = "last-backup.json"

func saveRecord(ctx context.Context, repo string, res Result) error {
	common, err := git.GitCommonDir(ctx, repo)
	if err != nil {
		return err
	}
	dir, err := storage.StateDir(common)
	if err != nil {
		return err
	}
	return storage.SaveJSON(filepath.Join(dir, recordFile), Record{Result: res, Time: time.Now().UTC()})
}

// LastRecord returns the record of the last successful backup, or nil.
func LastRecord(ctx context.Context, repo string) (*Record, error) {
	common, err := git.GitCommonDir(ctx, repo)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := storage.LoadJSON(filepath.Join(common, storage.StateDirName, recordFile), &rec); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
