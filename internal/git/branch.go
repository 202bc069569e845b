package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// CurrentBranch returns the checked-out branch name, or "" on a detached HEAD.
func CurrentBranch(ctx context.Context, path string) (string, error) {
	branch, err := outputLine(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	return branch, nil
}

// HeadCommit returns the full hash of HEAD.
func HeadCommit(ctx context.Context, path string) (string, error) {
	return outputLine(ctx, path, "rev-parse", "HEAD")
}

// refExists reports whether ref resolves. Exit code 1 means missing; any
// other failure is an error.
func refExists(ctx context.Context, path, ref string) (bool, error) {
	err := runGit(ctx, path, "show-ref", "--verify", "--quiet", ref)
	if err == nil {
		return true, nil
	}
	if cmd.ExitCode(err) == 1 {
		return false, nil
	}
	return false, err
}

// BranchExists checks if a local branch exists.
func BranchExists(ctx context.Context, path, branch string) (bool, error) {
	return refExists(ctx, path, "refs/heads/"+branch)
}

// RemoteBranchExists checks if remote/branch exists as a remote-tracking ref.
func RemoteBranchExists(ctx context.Context, path, remote, branch string) (bool, error) {
	return refExists(ctx, path, "refs/remotes/"+remote+"/"+branch)
}

// Branch is a local or remote-tracking branch.
type Branch struct {
	Name    string // short name without the remote prefix
	Remote  string // empty for local branches
	Current bool
}

// Ref returns the short ref to check out, e.g. "origin/feat/x".
func (b Branch) Ref() string {
	if b.Remote == "" {
		return b.Name
	}
	return b.Remote + "/" + b.Name
}

// ListBranches returns local branches followed by remote-tracking branches.
// Symbolic refs like origin/HEAD are skipped.
func ListBranches(ctx context.Context, path string) ([]Branch, error) {
	out, err := outputGit(ctx, path, "for-each-ref",
		"--format=%(HEAD)%00%(refname)%00%(symref)", "refs/heads", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return parseBranches(out), nil
}

func parseBranches(out []byte) []Branch {
	var branches []Branch
	for _, line := range splitLines(out) {
		fields := strings.Split(line, "\x00")
		if len(fields) != 3 || fields[2] != "" {
			continue
		}
		ref := fields[1]
		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			branches = append(branches, Branch{
				Name:    strings.TrimPrefix(ref, "refs/heads/"),
				Current: fields[0] == "*",
			})
		case strings.HasPrefix(ref, "refs/remotes/"):
			remote, name, ok := strings.Cut(strings.TrimPrefix(ref, "refs/remotes/"), "/")
			if !ok || name == "HEAD" {
				continue
			}
			branches = append(branches, Branch{Name: name, Remote: remote})
		}
	}
	return branches
}

// CommitInfo describes a single commit.
type CommitInfo struct {
	Hash     string `json:"hash" yaml:"hash"`
	Subject  string `json:"subject" yaml:"subject"`
	Relative string `json:"relative" yaml:"relative"`
}

// LastCommit returns the newest commit on ref.
func LastCommit(ctx context.Context, path, ref string) (CommitInfo, error) {
	out, err := outputLine(ctx, path, "log", "-1", "--format=%h%x00%s%x00%cr", ref, "--")
	if err != nil {
		return CommitInfo{}, fmt.Errorf("failed to get last commit: %w", err)
	}
	parts := strings.SplitN(out, "\x00", 3)
	if len(parts) != 3 {
		return CommitInfo{}, fmt.Errorf("unexpected git log output %q", out)
	}
	return CommitInfo{Hash: parts[0], Subject: parts[1], Relative: parts[2]}, nil
}

// Checkout switches to an existing branch or ref.
func Checkout(ctx context.Context, path, ref string) error {
	if err := runGit(ctx, path, "checkout", ref, "--"); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

// CheckoutForce switches to ref, discarding changes to tracked files.
func CheckoutForce(ctx context.Context, path, ref string) error {
	if err := runGit(ctx, path, "checkout", "--force", ref, "--"); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

// CheckoutTracking creates a local branch tracking remote/branch and switches to it.
func CheckoutTracking(ctx context.Context, path, remote, branch string) error {
	if err := runGit(ctx, path, "checkout", "-b", branch, "--track", remote+"/"+branch); err != nil {
		return fmt.Errorf("failed to checkout %s from %s: %w", branch, remote, err)
	}
	return nil
}

// CreateBranch creates branch from base and switches to it. The new branch
// does not track base.
func CreateBranch(ctx context.Context, path, branch, base string) error {
	if err := runGit(ctx, path, "checkout", "--no-track", "-b", branch, base); err != nil {
		return fmt.Errorf("failed to create branch %s from %s: %w", branch, base, err)
	}
	return nil
}

// emptyTree writes the empty tree object and returns its hash.
func emptyTree(ctx context.Context, path string) (string, error) {
	// git hash-object reads empty stdin when none is attached.
	return outputLine(ctx, path, "hash-object", "-t", "tree", "-w", "--stdin")
}

// CreateEmptyBranch creates branch pointing at a new root commit with an
// empty tree, without touching the work tree or HEAD. Returns the commit hash.
func CreateEmptyBranch(ctx context.Context, path, branch, message string) (string, error) {
	exists, err := BranchExists(ctx, path, branch)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("branch %s already exists", branch)
	}

	tree, err := emptyTree(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to write empty tree: %w", err)
	}
	commit, err := outputLine(ctx, path, "commit-tree", tree, "-m", message)
	if err != nil {
		return "", fmt.Errorf("failed to create root commit: %w", err)
	}
	if err := runGit(ctx, path, "branch", branch, commit); err != nil {
		return "", fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return commit, nil
}
