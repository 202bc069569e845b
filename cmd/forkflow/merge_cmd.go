package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/hooks"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/sync"
)

type mergeOptions struct {
	rebase      bool
	push        bool
	noAutostash bool
	hooks       hookFlags
}

func newMergeCmd() *cobra.Command {
	var opts mergeOptions

	cmd := &cobra.Command{
		Use:     "merge",
		Short:   "Bring upstream changes into the current branch",
		GroupID: GroupSync,
		Args:    cobra.NoArgs,
		Long: `Fetch the upstream branch and merge it into the current branch.

The upstream remote is added on first use. Uncommitted changes are stashed
and restored around the merge unless --no-autostash is given. On conflict
the work tree is left for you to resolve.`,
		Example: `  forkflow merge            # Merge upstream/main into the current branch
  forkflow merge --rebase   # Rebase onto upstream/main instead
  forkflow merge --push     # Push to origin afterwards`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.rebase, "rebase", "r", false, "Rebase onto upstream instead of merging")
	cmd.Flags().BoolVarP(&opts.push, "push", "p", false, "Push the branch to origin afterwards")
	cmd.Flags().BoolVar(&opts.noAutostash, "no-autostash", false, "Fail instead of stashing uncommitted changes")
	opts.hooks.register(cmd)

	return cmd
}

func runMerge(ctx context.Context, opts mergeOptions) error {
	l := log.FromContext(ctx)

	env, err := openRepo(ctx)
	if err != nil {
		return err
	}

	strategy := env.Cfg.Merge.Strategy
	if opts.rebase {
		strategy = config.StrategyRebase
	}

	res, err := sync.Sync(ctx, sync.Options{
		Repo:        env.Root,
		Upstream:    env.Cfg.Upstream,
		LocalBranch: env.Cfg.Local.Branch,
		Strategy:    strategy,
		Autostash:   !opts.noAutostash,
		Push:        opts.push || env.Cfg.Merge.Push,
	})
	if err != nil {
		return err
	}

	if res.UpToDate() {
		l.Success("%s is up to date with %s", res.Branch, env.Cfg.Upstream.Ref())
	} else {
		l.Success("%s: %d upstream commit(s) integrated via %s", res.Branch, res.Behind, res.Strategy)
	}
	if res.Pushed {
		l.Success("Pushed %s to origin", res.Branch)
	}

	return opts.hooks.run(ctx, env, hooks.TriggerMerge)
}
