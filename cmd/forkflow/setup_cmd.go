package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/doctor"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   "Prepare the current clone for forkflow",
		Aliases: []string{"init"},
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Prepare the current clone of your fork.

Adds the upstream remote, writes a manifest template, syncs the manifest
into .git/info/exclude and installs the pre-push guard for the local branch.
Safe to run again; only missing pieces are added.`,
		Example: `  forkflow setup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context())
		},
	}

	return cmd
}

func runSetup(ctx context.Context) error {
	l := log.FromContext(ctx)

	env, err := openRepo(ctx)
	if err != nil {
		return err
	}
	denv := doctor.Env{Repo: env.Root, Cfg: env.Cfg}

	rep := doctor.Run(ctx, denv)
	if len(rep.Problems()) > 0 {
		if rep, err = repair(ctx, denv, rep); err != nil {
			return err
		}
	}
	output.FromContext(ctx).Print(doctor.Render(rep))

	if !rep.Healthy() {
		return fmt.Errorf("setup incomplete: %d problem(s) need manual attention", len(rep.Problems()))
	}
	l.Success("%s is ready", git.RepoName(env.Root))
	return nil
}
