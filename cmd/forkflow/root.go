package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupSync    = "sync"
	GroupLocal   = "local"
	GroupPR      = "pr"
	GroupUtility = "utility"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "forkflow",
	Short: "Keep a personal fork in step with upstream",
	Long: `forkflow maintains a personal fork of an upstream repository.

It merges upstream into your branches, creates conventionally named
feature branches, keeps local-only files (notes, scripts, editor settings)
on a branch that is never pushed, and wraps the GitHub CLI for pull requests.

Run without arguments in a terminal to open the interactive menu.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	Args:                       cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet)))

		// Skip git check for completion and help commands
		switch cmd.Name() {
		case "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "help":
			return nil
		}
		return git.CheckGit()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !prompt.Interactive() {
			return cmd.Help()
		}
		return runMenu(cmd.Context())
	},
}

// Execute runs the root command and exits 1 on any error.
func Execute() {
	// A broken config file must not block "forkflow config init --force".
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if err := styles.SetTheme(loadedCfg.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	styles.Detect(os.Stderr)

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "forkflow: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithResolver(ctx, config.NewResolver(&loadedCfg))
	ctx = withWorkDir(ctx, workDir)
	ctx = log.WithLogger(ctx, log.New(os.Stderr, false, false))
	ctx = output.WithPrinter(ctx, os.Stdout)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSync, Title: "Branch Commands:"},
		&cobra.Group{ID: GroupLocal, Title: "Local File Commands:"},
		&cobra.Group{ID: GroupPR, Title: "Pull Request Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newStatusCmd())

	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newRestoreCmd())

	rootCmd.AddCommand(newPrCmd())

	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newHookCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.SetHelpCommandGroupID(GroupUtility)
	rootCmd.SetCompletionCommandGroupID(GroupUtility)
}
