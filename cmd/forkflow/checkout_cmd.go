package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/hooks"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
)

type checkoutOptions struct {
	noFetch bool
	hooks   hookFlags
}

func newCheckoutCmd() *cobra.Command {
	var opts checkoutOptions

	cmd := &cobra.Command{
		Use:               "checkout [branch]",
		Short:             "Switch to a local or remote branch",
		Aliases:           []string{"co"},
		GroupID:           GroupSync,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBranches,
		Long: `Switch to a branch.

A local branch is checked out directly. A branch that only exists on origin
or the upstream remote is checked out as a new tracking branch. Without an
argument a fuzzy picker over all branches opens.`,
		Example: `  forkflow checkout feat/login   # Switch to feat/login
  forkflow checkout              # Pick a branch interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var branch string
			if len(args) == 1 {
				branch = args[0]
			}
			return runCheckout(cmd.Context(), branch, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noFetch, "no-fetch", false, "Do not fetch before looking up remote branches")
	opts.hooks.register(cmd)

	return cmd
}

func runCheckout(ctx context.Context, branch string, opts checkoutOptions) error {
	l := log.FromContext(ctx)

	env, err := openRepo(ctx)
	if err != nil {
		return err
	}

	if branch == "" {
		if branch, err = pickBranch(ctx, env); err != nil {
			return err
		}
	}
	if branch == env.Cfg.Local.Branch {
		return fmt.Errorf("%s is the local-only branch; use 'forkflow restore' to get its files", branch)
	}

	if err := checkoutBranch(ctx, env, branch, !opts.noFetch); err != nil {
		return err
	}
	l.Success("Switched to %s", branch)

	return opts.hooks.run(ctx, env, hooks.TriggerCheckout)
}

// checkoutBranch switches to a local branch or creates a tracking branch from
// origin, falling back to the upstream remote.
func checkoutBranch(ctx context.Context, env repoEnv, branch string, fetch bool) error {
	l := log.FromContext(ctx)

	local, err := git.BranchExists(ctx, env.Root, branch)
	if err != nil {
		return err
	}
	if local {
		return git.Checkout(ctx, env.Root, branch)
	}

	remotes := []string{"origin"}
	if _, ok, err := git.RemoteURL(ctx, env.Root, env.Cfg.Upstream.Remote); err != nil {
		return err
	} else if ok {
		remotes = append(remotes, env.Cfg.Upstream.Remote)
	}

	for _, remote := range remotes {
		if fetch {
			l.Step("Fetching %s", remote)
			if err := git.Fetch(ctx, env.Root, remote); err != nil {
				l.Warn("%v", err)
				continue
			}
		}
		found, err := git.RemoteBranchExists(ctx, env.Root, remote, branch)
		if err != nil {
			return err
		}
		if found {
			l.Debug("creating tracking branch", "branch", branch, "remote", remote)
			return git.CheckoutTracking(ctx, env.Root, remote, branch)
		}
	}
	return fmt.Errorf("branch %q not found locally or on %s", branch, strings.Join(remotes, ", "))
}

// pickBranch offers every branch except the current and the local-only one.
func pickBranch(ctx context.Context, env repoEnv) (string, error) {
	if !prompt.Interactive() {
		return "", fmt.Errorf("branch argument required: %w", prompt.ErrNotInteractive)
	}
	options, err := branchOptions(ctx, env)
	if err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no other branches to switch to")
	}
	res, err := prompt.Fuzzy("Switch to branch", options)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", prompt.ErrCancelled
	}
	return res.Value, nil
}

// branchOptions lists local branch names, then remote-only ones, without
// duplicates.
func branchOptions(ctx context.Context, env repoEnv) ([]string, error) {
	branches, err := git.ListBranches(ctx, env.Root)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{env.Cfg.Local.Branch: true, "HEAD": true}
	var out []string
	for _, b := range branches {
		if b.Current {
			seen[b.Name] = true
		}
	}
	for _, b := range branches {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, b.Name)
	}
	return out, nil
}
