package git

import (
	"context"
	"fmt"
	"slices"
)

// StashEntry is a stash pushed by Stash, identified by its commit so it can
// be popped even after other entries were pushed on top. The zero value
// means nothing was stashed.
type StashEntry struct {
	Commit string
}

// Stashed reports whether the entry refers to a real stash.
func (e StashEntry) Stashed() bool {
	return e.Commit != ""
}

// Stash stashes tracked and untracked changes under message. A clean tree
// yields the zero entry and leaves the stash alone.
func Stash(ctx context.Context, path, message string) (StashEntry, error) {
	dirty, err := IsDirty(ctx, path)
	if err != nil || !dirty {
		return StashEntry{}, err
	}
	if err := runGit(ctx, path, "stash", "push", "--include-untracked", "-m", message); err != nil {
		return StashEntry{}, fmt.Errorf("failed to stash changes: %w", err)
	}
	commit, err := outputLine(ctx, path, "rev-parse", "refs/stash")
	if err != nil {
		return StashEntry{}, err
	}
	return StashEntry{Commit: commit}, nil
}

// StashPop applies and drops e. Popping the zero entry is a no-op.
func StashPop(ctx context.Context, path string, e StashEntry) error {
	if !e.Stashed() {
		return nil
	}
	out, err := outputGit(ctx, path, "stash", "list", "--format=%H")
	if err != nil {
		return err
	}
	i := slices.Index(splitLines(out), e.Commit)
	if i < 0 {
		return fmt.Errorf("stash %s is gone; your changes may already be applied", e.Commit[:min(len(e.Commit), 12)])
	}
	if err := runGit(ctx, path, "stash", "pop", fmt.Sprintf("stash@{%d}", i)); err != nil {
		return fmt.Errorf("failed to pop stash: %w", err)
	}
	return nil
}
