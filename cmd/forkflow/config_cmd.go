package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
	"github.com/Nubebuster/forkflow/internal/ui/static"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupUtility,
		Long: `Manage forkflow configuration.

Global config: ~/.config/forkflow/config.toml (or $FORKFLOW_CONFIG)
Local config:  .forkflow.toml at the repository root`,
		Example: `  forkflow config init          # Create default global config
  forkflow config init --local  # Create local repo config
  forkflow config show          # Show effective config
  forkflow config hooks         # List configured hooks`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigHooksCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config. With --local, creates a per-repo
.forkflow.toml at the root of the current repository.`,
		Example: `  forkflow config init           # Create global config
  forkflow config init --local   # Create local repo config
  forkflow config init -f        # Overwrite existing config
  forkflow config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.Context(), local, force, stdout)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .forkflow.toml instead of global config")

	return cmd
}

func runConfigInit(ctx context.Context, local, force, stdout bool) error {
	out := output.FromContext(ctx)

	content := config.DefaultConfig()
	if local {
		content = config.DefaultLocalConfig()
	}
	if stdout {
		out.Print(content)
		return nil
	}

	var (
		path string
		err  error
	)
	if local {
		env, openErr := openRepo(ctx)
		if openErr != nil {
			return openErr
		}
		path, err = config.InitLocal(env.Root, force)
	} else {
		path, err = config.Init(force)
	}
	if err != nil {
		return fmt.Errorf("%w (use -f to overwrite)", err)
	}
	log.FromContext(ctx).Success("Created %s", path)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration as TOML.

Inside a repository the local .forkflow.toml and FORKFLOW_* environment
variables are merged in.`,
		Example: `  forkflow config show
  forkflow config show --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"toml", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// effectiveConfig returns the merged config inside a repository and the
// global one elsewhere, plus the repo config file that contributed to it.
func effectiveConfig(ctx context.Context) (*config.Config, string, error) {
	resolver := config.ResolverFromContext(ctx)
	if !git.IsInsideRepo(ctx, workDirFromContext(ctx)) {
		return resolver.Global(), "", nil
	}
	env, err := openRepo(ctx)
	if err != nil {
		return nil, "", err
	}
	local, err := resolver.LocalSource(env.Root)
	if err != nil {
		return nil, "", err
	}
	return env.Cfg, local, nil
}

func runConfigShow(ctx context.Context, format string) error {
	out := output.FromContext(ctx)

	cfg, local, err := effectiveConfig(ctx)
	if err != nil {
		return err
	}

	if format == "toml" || format == "" {
		w := out.Writer()
		if path, err := config.Path(); err == nil {
			fmt.Fprintf(w, "# global: %s\n", path)
		}
		if local != "" {
			fmt.Fprintf(w, "# repo:   %s\n", local)
		}
		return cfg.WriteTOML(w)
	}
	f, err := output.ParseFormat(format)
	if err != nil || f == output.FormatText {
		return fmt.Errorf("invalid format %q: must be toml, json or yaml", format)
	}
	return out.Encode(f, cfg)
}

func newConfigHooksCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "List configured hooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return runConfigHooks(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runConfigHooks(ctx context.Context, format output.Format) error {
	cfg, _, err := effectiveConfig(ctx)
	if err != nil {
		return err
	}
	hooks := cfg.Hooks.Hooks
	return output.FromContext(ctx).Emit(format, hooks, func() string {
		if len(hooks) == 0 {
			log.FromContext(ctx).Println("No hooks configured")
			return ""
		}
		var rows [][]string
		for _, name := range slices.Sorted(maps.Keys(hooks)) {
			h := hooks[name]
			on := strings.Join(h.On, ",")
			if !h.IsEnabled() {
				on = "disabled"
			}
			rows = append(rows, []string{name, on, h.Command})
		}
		return static.RenderTable([]string{"NAME", "ON", "COMMAND"}, rows)
	})
}
