//go:build integration

package main

import (
	"testing"

	"github.com/Nubebuster/forkflow/internal/gittest"
)

// TestCheckout_LocalBranch tests switching to an existing local branch.
//
// Scenario: User runs `forkflow checkout feat/x` where feat/x exists locally
// Expected: HEAD is feat/x
func TestCheckout_LocalBranch(t *testing.T) {
	t.Parallel()

	f := gittest.NewFork(t)
	gittest.Run(t, f.Repo, "branch", "feat/x")

	ctx, io := testContext(t, forkConfig(f), f.Repo)
	if err := execute(ctx, newCheckoutCmd(), "feat/x"); err != nil {
		t.Fatalf("checkout failed: %v\n%s", err, io.Log)
	}
	if got := currentBranch(t, f.Repo); got != "feat/x" {
		t.Errorf("current branch = %q, want feat/x", got)
	}
}

// TestCheckout_RemoteBranches tests creating tracking branches.
//
// Scenario: A branch exists only on origin, another only on upstream
// Expected: Each is checked out tracking the remote it was found on
func TestCheckout_RemoteBranches(t *testing.T) {
	t.Parallel()

	f := gittest.NewFork(t)
	gittest.Run(t, f.Repo, "push", "--quiet", "origin", "main:fix/on-origin")
	gittest.Run(t, f.Seed, "push", "--quiet", "origin", "main:feat/on-upstream")
	gittest.Run(t, f.Repo, "remote", "add", "upstream", f.Upstream)

	tests := []struct {
		branch string
		remote string
	}{
		{"fix/on-origin", "origin"},
		{"feat/on-upstream", "upstream"},
	}

	for _, tt := range tests {
		ctx, io := testContext(t, forkConfig(f), f.Repo)
		if err := execute(ctx, newCheckoutCmd(), tt.branch); err != nil {
			t.Fatalf("checkout %s failed: %v\n%s", tt.branch, err, io.Log)
		}
		if got := currentBranch(t, f.Repo); got != tt.branch {
			t.Errorf("current branch = %q, want %q", got, tt.branch)
		}
		remote := gittest.Run(t, f.Repo, "config", "branch."+tt.branch+".remote")
		if remote != tt.remote {
			t.Errorf("%s tracks %q, want %q", tt.branch, remote, tt.remote)
		}
	}
}

// TestCheckout_Errors tests branches that cannot be checked out.
//
// Scenario: User asks for a missing branch or the local-only branch
// Expected: Command fails and HEAD stays on main
func TestCheckout_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		branch string
	}{
		{"missing", "feat/nowhere"},
		{"local-only branch", "local-files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := gittest.NewFork(t)
			gittest.Run(t, f.Repo, "branch", "local-files")

			ctx, _ := testContext(t, forkConfig(f), f.Repo)
			if err := execute(ctx, newCheckoutCmd(), tt.branch); err == nil {
				t.Fatalf("checkout %s should fail", tt.branch)
			}
			if got := currentBranch(t, f.Repo); got != "main" {
				t.Errorf("current branch = %q, want main", got)
			}
		})
	}
}

// TestCheckout_NoArgNonInteractive tests the picker without a terminal.
//
// Scenario: User runs `forkflow checkout` with stdin not a terminal
// Expected: Command fails asking for a branch argument
func TestCheckout_NoArgNonInteractive(t *testing.T) {
	t.Parallel()

	f := gittest.NewFork(t)
	ctx, _ := testContext(t, forkConfig(f), f.Repo)
	if err := execute(ctx, newCheckoutCmd()); err == nil {
		t.Fatal("checkout without a branch should fail when not interactive")
	}
}
