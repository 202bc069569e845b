package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/backup"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/githook"
	"github.com/Nubebuster/forkflow/internal/hooks"
	"github.com/Nubebuster/forkflow/internal/localfiles"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
)

type backupOptions struct {
	all   bool
	yes   bool
	hooks hookFlags
}

func newBackupCmd() *cobra.Command {
	var opts backupOptions

	cmd := &cobra.Command{
		Use:     "backup",
		Short:   "Commit local-only files to the local branch",
		GroupID: GroupLocal,
		Args:    cobra.NoArgs,
		Long: `Commit local-only files to the local branch without leaving the current one.

Candidates are the manifest and every untracked file matching its patterns.
You choose which to include; the previous choice is preselected. Without a
terminal (or with --yes) the previous choice is reused, or every candidate
when there is none. The local branch is protected by a pre-push hook so it
never reaches a remote.`,
		Example: `  forkflow backup         # Choose files interactively
  forkflow backup --all   # Back up every candidate
  forkflow backup -y      # Reuse the previous selection`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Back up every candidate file")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Reuse the previous selection without asking")
	cmd.MarkFlagsMutuallyExclusive("all", "yes")
	opts.hooks.register(cmd)

	return cmd
}

func runBackup(ctx context.Context, opts backupOptions) error {
	l := log.FromContext(ctx)

	env, err := openRepo(ctx)
	if err != nil {
		return err
	}

	m, err := loadManifest(ctx, env)
	if err != nil {
		return err
	}

	candidates, err := localfiles.Candidates(ctx, env.Root, m)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return backup.ErrNoLocalFiles
	}

	prefs, err := localfiles.PreferencesPath(ctx, env.Root)
	if err != nil {
		return err
	}
	files, err := selectBackupFiles(prefs, candidates, opts)
	if err != nil {
		return err
	}
	// The choice is kept even if the backup below fails.
	if err := localfiles.SavePreferences(prefs, files); err != nil {
		l.Warn("could not save backup selection: %v", err)
	}
	if len(files) == 0 {
		l.Warn("Nothing selected")
		return nil
	}

	if installed, err := githook.InstallPrePush(ctx, env.Root, env.Cfg.Local.Branch); err != nil {
		return err
	} else if installed {
		l.Step("Installed pre-push guard for %s", env.Cfg.Local.Branch)
	}

	res, err := backup.Backup(ctx, backup.Options{
		Repo:   env.Root,
		Branch: env.Cfg.Local.Branch,
		Files:  files,
	})
	if err != nil {
		return err
	}

	if res.Committed {
		l.Success("Backed up %d file(s) to %s (%s)", len(res.Files), res.Branch, shortHash(res.Commit))
	} else {
		l.Success("%s already has the current version of %d file(s)", res.Branch, len(res.Files))
	}

	return opts.hooks.run(ctx, env, hooks.TriggerBackup)
}

// loadManifest reads the manifest and brings the exclude block in line
// with it.
func loadManifest(ctx context.Context, env repoEnv) (*localfiles.Manifest, error) {
	m, err := localfiles.LoadManifest(env.Root, env.Cfg.Local.Manifest)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no %s manifest in %s; run 'forkflow setup' first", env.Cfg.Local.Manifest, env.Root)
	}
	if err != nil {
		return nil, err
	}
	if changed, err := git.SyncExcludeBlock(ctx, env.Root, m.ExcludePatterns()); err != nil {
		return nil, err
	} else if changed {
		log.FromContext(ctx).Debug("exclude block updated", "patterns", len(m.ExcludePatterns()))
	}
	return m, nil
}

// selectBackupFiles decides which candidates go into the backup.
func selectBackupFiles(prefs string, candidates []string, opts backupOptions) ([]string, error) {
	if opts.all {
		return candidates, nil
	}
	previous, hasPrevious, err := localfiles.LoadPreferences(prefs)
	if err != nil {
		return nil, err
	}
	preselected := localfiles.DefaultSelection(candidates, previous, hasPrevious)
	if opts.yes || !prompt.Interactive() {
		return preselected, nil
	}

	res, err := prompt.MultiSelect("Files to back up", candidates, preselected)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return nil, prompt.ErrCancelled
	}
	return res.Values, nil
}

func shortHash(hash string) string {
	return hash[:min(7, len(hash))]
}
