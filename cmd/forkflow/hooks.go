package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/hooks"
)

// hookFlags are shared by every command that triggers hooks.
type hookFlags struct {
	name   string
	noHook bool
	args   []string
}

func (h *hookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&h.name, "hook", "", "Run only the named hook")
	cmd.Flags().BoolVar(&h.noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringArrayVarP(&h.args, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHooks)
}

// run executes the hooks selected for trigger. An explicitly named hook
// that fails fails the command; automatic hooks only warn.
func (h hookFlags) run(ctx context.Context, env repoEnv, trigger hooks.Trigger) error {
	matches, err := hooks.SelectHooks(env.Cfg.Hooks, h.name, h.noHook, trigger)
	if err != nil || len(matches) == 0 {
		return err
	}
	vars, err := hooks.ParseEnv(h.args, os.Stdin)
	if err != nil {
		return err
	}
	branch, err := git.CurrentBranch(ctx, env.Root)
	if err != nil {
		return err
	}

	hc := hooks.Context{
		Path:    env.Root,
		Branch:  branch,
		Repo:    git.RepoName(env.Root),
		Trigger: trigger,
		Env:     vars,
	}
	if h.name != "" {
		return hooks.RunAll(ctx, matches, hc)
	}
	hooks.RunAllNonFatal(ctx, matches, hc)
	return nil
}
