package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/doctor"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var (
		fix    bool
		format string
	)

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Check the fork setup for problems",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Check git, gh, the upstream remote, the manifest, the exclude block, the
pre-push guard and the local branch.

Exits non-zero when a check fails. With --fix every fixable problem is
repaired and the checks run again.`,
		Example: `  forkflow doctor
  forkflow doctor --fix
  forkflow doctor --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return runDoctor(cmd.Context(), fix, f)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair fixable problems")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runDoctor(ctx context.Context, fix bool, format output.Format) error {
	env, err := doctorEnv(ctx)
	if err != nil {
		return err
	}

	rep := doctor.Run(ctx, env)
	if fix {
		if rep, err = repair(ctx, env, rep); err != nil {
			return err
		}
	}

	if err := printReport(ctx, rep, format); err != nil {
		return err
	}
	if !rep.Healthy() {
		return fmt.Errorf("%d problem(s) found; run 'forkflow doctor --fix' or 'forkflow setup'", len(rep.Problems()))
	}
	return nil
}

// repair fixes what it can and returns the report of a fresh run.
func repair(ctx context.Context, env doctor.Env, rep doctor.Report) (doctor.Report, error) {
	l := log.FromContext(ctx)
	fixed, err := doctor.Fix(ctx, env, rep)
	for _, name := range fixed {
		l.Success("Fixed %s", name)
	}
	if err != nil {
		return rep, err
	}
	return doctor.Run(ctx, env), nil
}

func printReport(ctx context.Context, rep doctor.Report, format output.Format) error {
	return output.FromContext(ctx).Emit(format, rep.Results, func() string {
		return doctor.Render(rep)
	})
}
