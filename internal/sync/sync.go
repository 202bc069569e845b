// Package sync brings the current branch up to date with upstream.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/storage"
)

var (
	// ErrOnLocalBranch is returned when asked to sync the local-only branch.
	ErrOnLocalBranch = errors.New("the local-only branch is never synced with upstream")
	// ErrDirty is returned for a dirty tree when autostash is off.
	ErrDirty = errors.New("working tree has uncommitted changes; commit or stash them, or allow autostash")
	// ErrDetached is returned on a detached HEAD.
	ErrDetached = errors.New("HEAD is detached; check out a branch first")
)

// ConflictError reports a merge or rebase that stopped on conflicts. The
// repository is left mid-operation for the user to resolve.
type ConflictError struct {
	Strategy string
	Files    []string
	// Stashed is set when an autostash entry is still waiting to be popped.
	Stashed bool
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s stopped with conflicts in %d file(s): %s", e.Strategy, len(e.Files), strings.Join(e.Files, ", "))
	if e.Strategy == config.StrategyRebase {
		b.WriteString("\nresolve them, then run 'git rebase --continue' (or 'git rebase --abort')")
	} else {
		b.WriteString("\nresolve them, then commit (or run 'git merge --abort')")
	}
	if e.Stashed {
		b.WriteString("\nyour uncommitted changes are in the stash; run 'git stash pop' afterwards")
	}
	return b.String()
}

// Options configures Sync.
type Options struct {
	Repo        string
	Upstream    config.UpstreamConfig
	LocalBranch string
	Strategy    string // config.StrategyMerge or config.StrategyRebase
	Autostash   bool
	// Push pushes the branch to origin after a clean sync.
	Push bool
}

// Result describes a finished sync.
type Result struct {
	Branch   string `json:"branch" yaml:"branch"`
	Strategy string `json:"strategy" yaml:"strategy"`
	Before   string `json:"before" yaml:"before"`
	After    string `json:"after" yaml:"after"`
	// Behind is how many upstream commits were missing before the sync.
	Behind int  `json:"behind" yaml:"behind"`
	Pushed bool `json:"pushed" yaml:"pushed"`
}

// UpToDate reports whether the sync changed nothing.
func (r Result) UpToDate() bool {
	return r.Before == r.After
}

// Sync fetches upstream and merges or rebases the current branch onto it.
func Sync(ctx context.Context, opts Options) (Result, error) {
	l := log.FromContext(ctx)

	branch, err := git.CurrentBranch(ctx, opts.Repo)
	if err != nil {
		return Result{}, err
	}
	switch branch {
	case "":
		return Result{}, ErrDetached
	case opts.LocalBranch:
		return Result{}, ErrOnLocalBranch
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

	strategy := opts.Strategy
	if strategy == "" {
		strategy = config.StrategyMerge
	}

	state, err := git.EnsureRemote(ctx, opts.Repo, opts.Upstream.Remote, opts.Upstream.URL)
	if err != nil {
		return Result{}, err
	}
	switch {
	case state.Added:
		l.Step("Added remote %s → %s", opts.Upstream.Remote, opts.Upstream.URL)
	case state.Mismatch:
		l.Warn("remote %s points to %s, not %s", opts.Upstream.Remote, state.URL, opts.Upstream.URL)
	}

	l.Step("Fetching %s", opts.Upstream.Ref())
	if err := git.Fetch(ctx, opts.Repo, opts.Upstream.Remote, opts.Upstream.Branch); err != nil {
		return Result{}, err
	}

	res := Result{Branch: branch, Strategy: strategy}
	if res.Before, err = git.HeadCommit(ctx, opts.Repo); err != nil {
		return Result{}, err
	}
	if _, res.Behind, err = git.AheadBehind(ctx, opts.Repo, "HEAD", opts.Upstream.Ref()); err != nil {
		return Result{}, err
	}

	var stash git.StashEntry
	if res.Behind > 0 {
		dirty, err := git.IsDirty(ctx, opts.Repo)
		if err != nil {
			return Result{}, err
		}
		if dirty {
			if !opts.Autostash {
				return Result{}, ErrDirty
			}
			if stash, err = git.Stash(ctx, opts.Repo, "forkflow merge autostash"); err != nil {
				return Result{}, err
			}
			l.Step("Stashed uncommitted changes")
		}

		if err := integrate(ctx, opts.Repo, strategy, opts.Upstream.Ref()); err != nil {
			files, ferr := git.ConflictedFiles(ctx, opts.Repo)
			if ferr == nil && len(files) > 0 {
				return Result{}, &ConflictError{Strategy: strategy, Files: files, Stashed: stash.Stashed()}
			}
			if perr := git.StashPop(ctx, opts.Repo, stash); perr != nil {
				err = errors.Join(err, perr)
			}
			return Result{}, err
		}

		if err := git.StashPop(ctx, opts.Repo, stash); err != nil {
			return Result{}, fmt.Errorf("synced, but restoring your changes failed: %w", err)
		}
	}

	if res.After, err = git.HeadCommit(ctx, opts.Repo); err != nil {
		return Result{}, err
	}

	if opts.Push {
		push := func() error { return git.Push(ctx, opts.Repo, "origin", branch, false) }
		if strategy == config.StrategyRebase && !res.UpToDate() {
			push = func() error { return git.PushForceWithLease(ctx, opts.Repo, "origin", branch) }
		}
		l.Step("Pushing %s to origin", branch)
		if err := push(); err != nil {
			return res, err
		}
		res.Pushed = true
	}
	return res, nil
}

func integrate(ctx context.Context, repo, strategy, ref string) error {
	if strategy == config.StrategyRebase {
		return git.Rebase(ctx, repo, ref)
	}
	return git.Merge(ctx, repo, ref)
}
