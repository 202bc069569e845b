package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/backup"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/githook"
	"github.com/Nubebuster/forkflow/internal/localfiles"
	"github.com/Nubebuster/forkflow/internal/output"
	"github.com/Nubebuster/forkflow/internal/ui/static"
)

// statusReport is the data shown by "forkflow status".
type statusReport struct {
	Repo     string `json:"repo" yaml:"repo"`
	Branch   string `json:"branch" yaml:"branch"`
	Upstream string `json:"upstream" yaml:"upstream"`

	// Ahead and Behind are nil when the upstream ref was never fetched.
	Ahead  *int `json:"ahead,omitempty" yaml:"ahead,omitempty"`
	Behind *int `json:"behind,omitempty" yaml:"behind,omitempty"`

	Dirty      bool           `json:"dirty" yaml:"dirty"`
	LocalFiles []string       `json:"local_files" yaml:"local_files"`
	Backup     statusBackup   `json:"backup" yaml:"backup"`
	LastBackup *backup.Record `json:"last_backup,omitempty" yaml:"last_backup,omitempty"`
	Guard      bool           `json:"guard" yaml:"guard"`
}

type statusBackup struct {
	Branch string `json:"branch" yaml:"branch"`
	Exists bool   `json:"exists" yaml:"exists"`
	Files  int    `json:"files" yaml:"files"`
}

func newStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show fork, branch and local file state",
		Aliases: []string{"st"},
		GroupID: GroupSync,
		Args:    cobra.NoArgs,
		Long: `Show the current branch, how far it is from upstream, local files and the
state of the local branch.

Nothing is fetched; ahead/behind counts use the last fetched upstream ref.`,
		Example: `  forkflow status
  forkflow status --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runStatus(ctx context.Context, format output.Format) error {
	env, err := openRepo(ctx)
	if err != nil {
		return err
	}
	rep, err := collectStatus(ctx, env)
	if err != nil {
		return err
	}

	return output.FromContext(ctx).Emit(format, rep, func() string {
		return static.RenderKeyValue(statusPairs(rep))
	})
}

func collectStatus(ctx context.Context, env repoEnv) (statusReport, error) {
	up := env.Cfg.Upstream
	rep := statusReport{
		Repo:       env.Root,
		Upstream:   up.Ref(),
		LocalFiles: []string{},
		Backup:     statusBackup{Branch: env.Cfg.Local.Branch},
	}

	var err error
	if rep.Branch, err = git.CurrentBranch(ctx, env.Root); err != nil {
		return rep, err
	}
	if rep.Dirty, err = git.IsDirty(ctx, env.Root); err != nil {
		return rep, err
	}

	if fetched, err := git.RemoteBranchExists(ctx, env.Root, up.Remote, up.Branch); err != nil {
		return rep, err
	} else if fetched {
		ahead, behind, err := git.AheadBehind(ctx, env.Root, "HEAD", up.Ref())
		if err != nil {
			return rep, err
		}
		rep.Ahead, rep.Behind = &ahead, &behind
	}

	m, err := localfiles.LoadManifest(env.Root, env.Cfg.Local.Manifest)
	switch {
	case err == nil:
		files, err := localfiles.Candidates(ctx, env.Root, m)
		if err != nil {
			return rep, err
		}
		if files != nil {
			rep.LocalFiles = files
		}
	case !errors.Is(err, os.ErrNotExist):
		return rep, err
	}

	entries, err := backup.List(ctx, env.Root, env.Cfg.Local.Branch)
	switch {
	case err == nil:
		rep.Backup.Exists = true
		rep.Backup.Files = len(entries)
	case !errors.Is(err, backup.ErrNoBackup):
		return rep, err
	}
	if rep.LastBackup, err = backup.LastRecord(ctx, env.Root); err != nil {
		return rep, err
	}

	guard, err := githook.PrePushInstalled(ctx, env.Root)
	if err != nil {
		return rep, err
	}
	rep.Guard = guard.Installed && guard.Branch == env.Cfg.Local.Branch

	return rep, nil
}

func statusPairs(rep statusReport) [][2]string {
	branch := rep.Branch
	if branch == "" {
		branch = "(detached HEAD)"
	}

	upstream := rep.Upstream + " (not fetched)"
	if rep.Ahead != nil {
		upstream = fmt.Sprintf("%s (%d ahead, %d behind)", rep.Upstream, *rep.Ahead, *rep.Behind)
	}

	tree := "clean"
	if rep.Dirty {
		tree = "uncommitted changes"
	}

	local := "none"
	if len(rep.LocalFiles) > 0 {
		local = strconv.Itoa(len(rep.LocalFiles)) + " file(s)"
	}

	stored := "not created"
	if rep.Backup.Exists {
		stored = fmt.Sprintf("%d file(s)", rep.Backup.Files)
	}

	last := "never"
	if rep.LastBackup != nil {
		last = rep.LastBackup.Time.Local().Format(time.DateTime)
	}

	guard := "missing"
	if rep.Guard {
		guard = "installed"
	}

	return [][2]string{
		{"branch", branch},
		{"upstream", upstream},
		{"work tree", tree},
		{"local files", local},
		{rep.Backup.Branch, stored},
		{"last backup", last},
		{"pre-push guard", guard},
	}
}
