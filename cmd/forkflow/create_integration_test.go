//go:build integration

package main

import (
	"testing"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/gittest"
)

// TestCreate_FromUpstream tests creating a branch from the upstream branch.
//
// Scenario: Upstream is ahead, user runs `forkflow create "feat/Login Page!"`
// Expected: feat/login-page is checked out at upstream/main
func TestCreate_FromUpstream(t *testing.T) {
	t.Parallel()

	f := gittest.NewFork(t)
	f.UpstreamCommit(t, "upstream.txt", "from upstream\n", "upstream change")

	ctx, io := testContext(t, forkConfig(f), f.Repo)
	if err := execute(ctx, newCreateCmd(), "feat/Login Page!"); err != nil {
		t.Fatalf("create failed: %v\n%s", err, io.Log)
	}

	if got := currentBranch(t, f.Repo); got != "feat/login-page" {
		t.Errorf("current branch = %q, want feat/login-page", got)
	}
	head := gittest.Run(t, f.Repo, "rev-parse", "HEAD")
	up := gittest.Run(t, f.Repo, "rev-parse", "upstream/main")
	if head != up {
		t.Errorf("HEAD = %s, want upstream/main %s", head, up)
	}
	if up := gittest.Run(t, f.Repo, "for-each-ref", "--format=%(upstream)", "refs/heads/feat/login-page"); up != "" {
		t.Errorf("new branch should not track anything, tracks %q", up)
	}
}

// TestCreate_CurrentBase tests branch.base = "current".
//
// Scenario: Config bases branches on the current commit
// Expected: The branch starts at HEAD and nothing is fetched
func TestCreate_CurrentBase(t *testing.T) {
	t.Parallel()

	f := gittest.NewFork(t)
	gittest.CommitFile(t, f.Repo, "mine.txt", "mine\n", "fork change")
	before := gittest.Run(t, f.Repo, "rev-parse", "HEAD")

	cfg := forkConfig(f)
	cfg.Branch.Base = config.BaseCurrent
	ctx, io := testContext(t, cfg, f.Repo)
	if err := execute(ctx, newCreateCmd(), "fix/typo"); err != nil {
		t.Fatalf("create failed: %v\n%s", err, io.Log)
	}

	if got := gittest.Run(t, f.Repo, "rev-parse", "HEAD"); got != before {
		t.Errorf("HEAD = %s, want %s", got, before)
	}
	if out := gittest.Run(t, f.Repo, "remote"); out != "origin" {
		t.Errorf("remotes = %q, upstream should not be added", out)
	}
}

// TestCreate_Errors tests invalid and existing branch names.
//
// Scenario: User passes an unknown type, an empty name or an existing branch
// Expected: Command fails and HEAD stays on main
func TestCreate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec string
	}{
		{"unknown type", "wip/thing"},
		{"empty name", "feat/!!!"},
		{"no slash", "thing"},
		{"existing branch", "feat/exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := gittest.NewFork(t)
			gittest.Run(t, f.Repo, "branch", "feat/exists")

			ctx, _ := testContext(t, forkConfig(f), f.Repo)
			if err := execute(ctx, newCreateCmd(), tt.spec, "--base", "HEAD"); err == nil {
				t.Fatalf("create %q should fail", tt.spec)
			}
			if got := currentBranch(t, f.Repo); got != "main" {
				t.Errorf("current branch = %q, want main", got)
			}
		})
	}
}
