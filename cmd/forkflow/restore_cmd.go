package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/backup"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/hooks"
	"github.com/Nubebuster/forkflow/internal/localfiles"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
)

type restoreOptions struct {
	force bool
	all   bool
	hooks hookFlags
}

func newRestoreCmd() *cobra.Command {
	var opts restoreOptions

	cmd := &cobra.Command{
		Use:     "restore",
		Short:   "Copy files from the local branch into the work tree",
		GroupID: GroupLocal,
		Args:    cobra.NoArgs,
		Long: `Copy backed-up local files into the work tree without switching branches.

Files that already exist with different content are only overwritten after
confirmation, or always with --force.`,
		Example: `  forkflow restore               # Choose files interactively
  forkflow restore --all         # Restore everything
  forkflow restore --all --force # Overwrite differing files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite differing files without asking")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Restore every backed-up file")
	opts.hooks.register(cmd)

	return cmd
}

func runRestore(ctx context.Context, opts restoreOptions) error {
	l := log.FromContext(ctx)

	env, err := openRepo(ctx)
	if err != nil {
		return err
	}

	entries, err := backup.List(ctx, env.Root, env.Cfg.Local.Branch)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s holds no files", env.Cfg.Local.Branch)
	}

	var files []string
	interactive := prompt.Interactive()
	if !opts.all && interactive {
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		res, err := prompt.MultiSelect("Files to restore", paths, paths)
		if err != nil {
			return err
		}
		if res.Cancelled {
			return prompt.ErrCancelled
		}
		if len(res.Values) == 0 {
			l.Warn("Nothing selected")
			return nil
		}
		files = res.Values
	}

	var confirm func(string) (bool, error)
	if interactive {
		bulk := prompt.No
		confirm = func(path string) (bool, error) {
			if bulk == prompt.YesToAll || bulk == prompt.NoToAll {
				return bulk.Affirmative(), nil
			}
			a, err := prompt.Confirm(fmt.Sprintf("%s differs from the backup. Overwrite?", path),
				prompt.ConfirmOptions{Bulk: true})
			if err != nil {
				return false, err
			}
			if a == prompt.Cancelled {
				return false, prompt.ErrCancelled
			}
			bulk = a
			return a.Affirmative(), nil
		}
	}

	res, err := backup.Restore(ctx, backup.RestoreOptions{
		Repo:             env.Root,
		Branch:           env.Cfg.Local.Branch,
		Files:            files,
		Force:            opts.force,
		ConfirmOverwrite: confirm,
	})
	if err != nil {
		return err
	}

	// The restored manifest may carry patterns the exclude block lacks.
	if m, err := localfiles.LoadManifest(env.Root, env.Cfg.Local.Manifest); err == nil {
		if _, err := git.SyncExcludeBlock(ctx, env.Root, m.ExcludePatterns()); err != nil {
			return err
		}
	}

	l.Success("Restored %d file(s), %d unchanged", len(res.Written), len(res.Unchanged))
	if len(res.Skipped) > 0 {
		l.Warn("Skipped %d differing file(s): %v (use --force to overwrite)", len(res.Skipped), res.Skipped)
	}

	return opts.hooks.run(ctx, env, hooks.TriggerRestore)
}
