package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/branchname"
	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/hooks"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
)

type createOptions struct {
	base    string
	noFetch bool
	hooks   hookFlags
}

func newCreateCmd() *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:               "create [type/name]",
		Short:             "Create a conventionally named feature branch",
		Aliases:           []string{"new"},
		GroupID:           GroupSync,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBranchTypes,
		Long: `Create a branch named type/name and switch to it.

The type must be one of the configured branch types (feat, fix, chore, ...).
The name is lowercased and every run of other characters becomes a dash.
Missing parts are prompted for. By default the branch starts at the freshly
fetched upstream branch; set branch.base = "current" or pass --base to
change that.`,
		Example: `  forkflow create feat/login-page        # feat/login-page from upstream/main
  forkflow create "fix/Crash on Start"   # fix/crash-on-start
  forkflow create feat/x --base HEAD     # Start from the current commit
  forkflow create                        # Prompt for type and name`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec string
			if len(args) == 1 {
				spec = args[0]
			}
			return runCreate(cmd.Context(), spec, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.base, "base", "b", "", "Start point of the new branch")
	cmd.Flags().BoolVar(&opts.noFetch, "no-fetch", false, "Do not fetch upstream first")
	opts.hooks.register(cmd)

	return cmd
}

func runCreate(ctx context.Context, spec string, opts createOptions) error {
	l := log.FromContext(ctx)

	env, err := openRepo(ctx)
	if err != nil {
		return err
	}

	name, err := resolveBranchName(spec, env.Cfg.Branch.Types)
	if err != nil {
		return err
	}
	branch := name.String()
	if branch == env.Cfg.Local.Branch {
		return fmt.Errorf("%s is reserved for local files", branch)
	}

	exists, err := git.BranchExists(ctx, env.Root, branch)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("branch %s already exists; use 'forkflow checkout %s'", branch, branch)
	}

	base, err := createBase(ctx, env, opts)
	if err != nil {
		return err
	}

	l.Debug("creating branch", "branch", branch, "base", base)
	if err := git.CreateBranch(ctx, env.Root, branch, base); err != nil {
		return err
	}
	l.Success("Created %s from %s", branch, base)

	return opts.hooks.run(ctx, env, hooks.TriggerCreate)
}

// createBase returns the start point for a new branch, fetching upstream
// when the branch is based on it.
func createBase(ctx context.Context, env repoEnv, opts createOptions) (string, error) {
	if opts.base != "" {
		return opts.base, nil
	}
	if env.Cfg.Branch.Base == config.BaseCurrent {
		return "HEAD", nil
	}

	up := env.Cfg.Upstream
	state, err := git.EnsureRemote(ctx, env.Root, up.Remote, up.URL)
	if err != nil {
		return "", err
	}
	if state.Mismatch {
		log.FromContext(ctx).Warn("remote %s points to %s, not %s", up.Remote, state.URL, up.URL)
	}
	if !opts.noFetch || state.Added {
		log.FromContext(ctx).Step("Fetching %s", up.Ref())
		if err := git.Fetch(ctx, env.Root, up.Remote, up.Branch); err != nil {
			return "", err
		}
	}
	return up.Ref(), nil
}

// resolveBranchName parses spec and prompts for whatever is missing.
// A spec without a slash is taken as the name.
func resolveBranchName(spec string, types []string) (branchname.Name, error) {
	spec = strings.TrimSpace(spec)
	typ, name, ok := strings.Cut(spec, "/")
	if !ok {
		typ, name = "", spec
	}
	if typ != "" && name != "" {
		return branchname.New(typ, name, types)
	}
	if !prompt.Interactive() {
		if spec == "" {
			return branchname.Name{}, fmt.Errorf("type/name argument required: %w", prompt.ErrNotInteractive)
		}
		return branchname.Parse(spec, types)
	}

	if typ == "" {
		res, err := prompt.Select("Branch type", prompt.Choices(types))
		if err != nil {
			return branchname.Name{}, err
		}
		if res.Cancelled {
			return branchname.Name{}, prompt.ErrCancelled
		}
		typ = res.Value
	}
	if name == "" {
		res, err := prompt.TextInput("Branch name", prompt.TextOptions{
			Placeholder: "short description",
			Validate: func(s string) error {
				if branchname.Sanitize(s) == "" {
					return branchname.ErrEmptyName
				}
				return nil
			},
			Preview: func(s string) string { return strings.ToLower(typ) + "/" + branchname.Sanitize(s) },
		})
		if err != nil {
			return branchname.Name{}, err
		}
		if res.Cancelled {
			return branchname.Name{}, prompt.ErrCancelled
		}
		name = res.Value
	}
	return branchname.New(typ, name, types)
}
