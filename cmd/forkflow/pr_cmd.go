package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/github"
	"github.com/Nubebuster/forkflow/internal/hooks"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
	"github.com/Nubebuster/forkflow/internal/prcache"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
	"github.com/Nubebuster/forkflow/internal/ui/static"
)

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

func newPrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Short:   "Work with upstream pull requests",
		GroupID: GroupPR,
		Args:    cobra.NoArgs,
		Long: `Work with pull requests on the upstream repository through the GitHub CLI.

Pull requests are opened from your fork (origin) against upstream. Without a
subcommand in a terminal the pull request menu opens.`,
		Example: `  forkflow pr list --author @me
  forkflow pr create --draft
  forkflow pr comments 123 --unresolved --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !prompt.Interactive() {
				return cmd.Help()
			}
			return runPRMenu(cmd.Context())
		},
	}

	cmd.AddCommand(newPrListCmd())
	cmd.AddCommand(newPrViewCmd())
	cmd.AddCommand(newPrCreateCmd())
	cmd.AddCommand(newPrCheckoutCmd())
	cmd.AddCommand(newPrCommentsCmd())

	return cmd
}

// prEnv is a repository plus the GitHub repository its pull requests go to.
type prEnv struct {
	repoEnv
	Target github.Repo
}

// openPR resolves the repository and checks that gh is usable.
func openPR(ctx context.Context) (prEnv, error) {
	env, err := openRepo(ctx)
	if err != nil {
		return prEnv{}, err
	}
	if err := github.CheckGH(ctx); err != nil {
		return prEnv{}, err
	}
	target, err := prRepo(env.Cfg)
	if err != nil {
		return prEnv{}, err
	}
	return prEnv{repoEnv: env, Target: target}, nil
}

// prRepo returns pr.repo, or the repository upstream.url points to.
func prRepo(cfg *config.Config) (github.Repo, error) {
	if cfg.PR.Repo != "" {
		return github.ParseRepo(cfg.PR.Repo)
	}
	repo, err := github.RepoFromURL(cfg.Upstream.URL)
	if err != nil {
		return github.Repo{}, fmt.Errorf("cannot derive pr.repo from upstream.url: %w", err)
	}
	return repo, nil
}

// prNumberArg parses args[0] or lets the user pick one of their open PRs.
func prNumberArg(ctx context.Context, env prEnv, args []string) (int, error) {
	if len(args) == 1 {
		return github.ParseNumber(args[0])
	}
	if !prompt.Interactive() {
		return 0, fmt.Errorf("PR number required: %w", prompt.ErrNotInteractive)
	}
	prs, err := github.ListPRs(ctx, env.Root, env.Target, github.ListOptions{Author: "@me"})
	if err != nil {
		return 0, err
	}
	if len(prs) == 0 {
		return 0, fmt.Errorf("you have no open pull requests on %s", env.Target)
	}
	options := make([]prompt.Option, len(prs))
	for i, pr := range prs {
		options[i] = prompt.Option{Label: fmt.Sprintf("#%d %s", pr.Number, pr.Title), Hint: pr.Branch}
	}
	res, err := prompt.Select("Pull request", options)
	if err != nil {
		return 0, err
	}
	if res.Cancelled {
		return 0, prompt.ErrCancelled
	}
	return prs[res.Index].Number, nil
}

func newPrListCmd() *cobra.Command {
	var (
		state  string
		author string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List pull requests on upstream",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Example: `  forkflow pr list                  # Open PRs
  forkflow pr list --author @me     # Your PRs
  forkflow pr list --state merged --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return runPRList(cmd.Context(), github.ListOptions{Author: author, State: state, Limit: limit}, f)
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "open", "Filter by state: open, closed, merged, all")
	cmd.Flags().StringVarP(&author, "author", "a", "", "Filter by author (@me for yourself)")
	cmd.Flags().IntVarP(&limit, "limit", "L", 30, "Maximum number of pull requests")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	cmd.RegisterFlagCompletionFunc("state", cobra.FixedCompletions(
		[]string{"open", "closed", "merged", "all"}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runPRList(ctx context.Context, opts github.ListOptions, format output.Format) error {
	env, err := openPR(ctx)
	if err != nil {
		return err
	}
	prs, err := github.ListPRs(ctx, env.Root, env.Target, opts)
	if err != nil {
		return err
	}
	if err := prcache.Save(ctx, env.Root, env.Target, prs); err != nil {
		log.FromContext(ctx).Debug("pr cache not written", "error", err)
	}

	if prs == nil {
		prs = []github.PR{}
	}
	return output.FromContext(ctx).Emit(format, prs, func() string {
		if len(prs) == 0 {
			log.FromContext(ctx).Println("No pull requests found")
			return ""
		}
		rows := make([][]string, len(prs))
		for i, pr := range prs {
			rows[i] = []string{"#" + strconv.Itoa(pr.Number), github.FormatState(pr.DisplayState()), pr.Title, pr.Author, pr.Branch}
		}
		return static.RenderTable([]string{"PR", "STATE", "TITLE", "AUTHOR", "BRANCH"}, rows)
	})
}

func newPrViewCmd() *cobra.Command {
	var web bool

	cmd := &cobra.Command{
		Use:               "view [number]",
		Short:             "Show a pull request",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePRNumbers,
		Example: `  forkflow pr view 123
  forkflow pr view 123 --web`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openPR(ctx)
			if err != nil {
				return err
			}
			n, err := prNumberArg(ctx, env, args)
			if err != nil {
				return err
			}
			return github.ViewPR(ctx, env.Root, env.Target, n, web)
		},
	}

	cmd.Flags().BoolVarP(&web, "web", "w", false, "Open in the browser")

	return cmd
}

type prCreateOptions struct {
	title string
	body  string
	base  string
	draft bool
	hooks hookFlags
}

func newPrCreateCmd() *cobra.Command {
	var opts prCreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Push the current branch and open a pull request on upstream",
		Args:  cobra.NoArgs,
		Long: `Push the current branch to origin and open a pull request against the
upstream branch. Without --title and --body, title and body are filled in
from the commits.`,
		Example: `  forkflow pr create
  forkflow pr create --title "Fix crash on start" --draft`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("body") && opts.body == "-" {
				data, err := readAllStdin()
				if err != nil {
					return err
				}
				opts.body = data
			}
			if !cmd.Flags().Changed("draft") {
				opts.draft = draftDefault(cmd.Context())
			}
			return runPRCreate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "PR title")
	cmd.Flags().StringVarP(&opts.body, "body", "b", "", "PR body (- reads stdin)")
	cmd.Flags().StringVar(&opts.base, "base", "", "Base branch on upstream (default: upstream.branch)")
	cmd.Flags().BoolVarP(&opts.draft, "draft", "d", false, "Open as draft")
	opts.hooks.register(cmd)

	return cmd
}

// draftDefault returns pr.draft of the current repo, false outside one.
func draftDefault(ctx context.Context) bool {
	env, err := openRepo(ctx)
	if err != nil {
		return false
	}
	return env.Cfg.PR.Draft
}

func runPRCreate(ctx context.Context, opts prCreateOptions) error {
	l := log.FromContext(ctx)

	env, err := openPR(ctx)
	if err != nil {
		return err
	}

	branch, err := git.CurrentBranch(ctx, env.Root)
	if err != nil {
		return err
	}
	switch branch {
	case "":
		return fmt.Errorf("HEAD is detached; check out a branch first")
	case env.Cfg.Local.Branch:
		return fmt.Errorf("%s is local-only and cannot be proposed", branch)
	}

	originURL, ok, err := git.RemoteURL(ctx, env.Root, "origin")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no origin remote; push your fork first")
	}
	fork, err := github.RepoFromURL(originURL)
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}

	l.Step("Pushing %s to origin", branch)
	if err := git.Push(ctx, env.Root, "origin", branch, true); err != nil {
		return err
	}

	base := opts.base
	if base == "" {
		base = env.Cfg.Upstream.Branch
	}
	res, err := github.CreatePR(ctx, env.Root, env.Target, github.CreateParams{
		Title: opts.title,
		Body:  opts.body,
		Base:  base,
		Head:  fork.Owner + ":" + branch,
		Draft: opts.draft,
	})
	if err != nil {
		return err
	}
	l.Success("Opened #%d on %s", res.Number, env.Target)
	output.FromContext(ctx).Print(res.URL + "\n")

	return opts.hooks.run(ctx, env.repoEnv, hooks.TriggerPR)
}

func newPrCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "checkout [number]",
		Short:             "Check out a pull request locally",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePRNumbers,
		Example:           "  forkflow pr checkout 123",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openPR(ctx)
			if err != nil {
				return err
			}
			n, err := prNumberArg(ctx, env, args)
			if err != nil {
				return err
			}
			if err := github.CheckoutPR(ctx, env.Root, env.Target, n); err != nil {
				return err
			}
			log.FromContext(ctx).Success("Checked out #%d", n)
			return nil
		},
	}

	return cmd
}

type prCommentsOptions struct {
	unresolved bool
	copy       bool
	format     output.Format
}

func newPrCommentsCmd() *cobra.Command {
	var (
		opts   prCommentsOptions
		format string
	)

	cmd := &cobra.Command{
		Use:               "comments [number]",
		Short:             "Print a pull request's comments and review threads as Markdown",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePRNumbers,
		Long: `Fetch the conversation, reviews and review threads of a pull request and
print them as Markdown, for pasting into an editor or a prompt.

The GitHub token comes from GH_TOKEN, GITHUB_TOKEN or 'gh auth token'.`,
		Example: `  forkflow pr comments 123
  forkflow pr comments 123 --unresolved --copy
  forkflow pr comments 123 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			opts.format = f
			ctx := cmd.Context()
			env, err := openPR(ctx)
			if err != nil {
				return err
			}
			n, err := prNumberArg(ctx, env, args)
			if err != nil {
				return err
			}
			return runPRComments(ctx, env, n, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.unresolved, "unresolved", "u", false, "Only show unresolved review threads")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the Markdown to the clipboard")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runPRComments(ctx context.Context, env prEnv, number int, opts prCommentsOptions) error {
	token, err := github.Token(ctx, os.Getenv)
	if err != nil {
		return err
	}
	client := github.NewCommentsClient(env.Cfg.PR.GraphQLURL, token)
	pr, err := client.Fetch(ctx, env.Target, number)
	if err != nil {
		return err
	}

	if opts.unresolved {
		pr.Threads = slices.DeleteFunc(pr.Threads, func(t github.Thread) bool { return t.Resolved })
	}

	out := output.FromContext(ctx)
	if opts.format != output.FormatText {
		return out.Encode(opts.format, pr)
	}

	md := github.FormatComments(pr, github.FormatOptions{Unresolved: opts.unresolved})
	if opts.copy {
		if err := copyToClipboard(md); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		log.FromContext(ctx).Success("Copied comments of #%d to the clipboard", number)
		return nil
	}
	out.Print(md)
	return nil
}
