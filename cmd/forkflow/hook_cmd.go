package main

import (
	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/hooks"
)

func newHookCmd() *cobra.Command {
	var args []string

	cmd := &cobra.Command{
		Use:               "hook <name>",
		Short:             "Run a configured hook",
		GroupID:           GroupUtility,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeHookArg,
		Long: `Run a configured hook in the current repository.

Placeholders {path}, {branch}, {repo} and {trigger} are replaced before the
command runs; --arg KEY=VALUE adds {KEY}. Values are shell-quoted unless
written as {KEY:raw}; {KEY:-default} supplies a fallback.`,
		Example: `  forkflow hook deps
  forkflow hook notify --arg msg="synced"
  echo "details" | forkflow hook notify --arg body=-`,
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			ctx := cmd.Context()
			env, err := openRepo(ctx)
			if err != nil {
				return err
			}
			h := hookFlags{name: posArgs[0], args: args}
			return h.run(ctx, env, hooks.TriggerManual)
		},
	}

	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")

	return cmd
}
