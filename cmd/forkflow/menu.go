package main

import (
	"context"
	"errors"

	"github.com/Nubebuster/forkflow/internal/github"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
	"github.com/Nubebuster/forkflow/internal/ui/prompt"
)

// menuItem is one entry of an interactive menu.
type menuItem struct {
	label string
	hint  string
	run   func(context.Context) error
}

var mainMenu = []menuItem{
	{"Merge upstream into current branch", "fetch upstream and merge or rebase onto it", func(ctx context.Context) error { return runMerge(ctx, mergeOptions{}) }},
	{"Checkout branch", "local, origin or upstream branch", func(ctx context.Context) error { return runCheckout(ctx, "", checkoutOptions{}) }},
	{"Create feature branch", "type/name off the upstream branch", func(ctx context.Context) error { return runCreate(ctx, "", createOptions{}) }},
	{"Back up local files", "commit private files to the local-only branch", func(ctx context.Context) error { return runBackup(ctx, backupOptions{}) }},
	{"Restore local files", "copy files back from the local-only branch", func(ctx context.Context) error { return runRestore(ctx, restoreOptions{}) }},
	{"Status", "branch, upstream distance and backup state", func(ctx context.Context) error { return runStatus(ctx, output.FormatText) }},
	{"Pull requests", "list, create, review", runPRMenu},
	{"Doctor", "check the repository setup", func(ctx context.Context) error { return runDoctor(ctx, false, output.FormatText) }},
}

var prMenu = []menuItem{
	{"List my pull requests", "open PRs you authored", func(ctx context.Context) error {
		return runPRList(ctx, github.ListOptions{Author: "@me", State: "open"}, output.FormatText)
	}},
	{"List all open pull requests", "newest 30", func(ctx context.Context) error {
		return runPRList(ctx, github.ListOptions{State: "open", Limit: 30}, output.FormatText)
	}},
	{"Create pull request from current branch", "push and open against upstream", func(ctx context.Context) error {
		return runPRCreate(ctx, prCreateOptions{draft: draftDefault(ctx)})
	}},
	{"View pull request", "show in the terminal", func(ctx context.Context) error { return withPR(ctx, viewPR) }},
	{"Show unresolved review comments", "review threads still open", func(ctx context.Context) error {
		return withPR(ctx, func(ctx context.Context, env prEnv, n int) error {
			return runPRComments(ctx, env, n, prCommentsOptions{unresolved: true, format: output.FormatText})
		})
	}},
	{"Checkout pull request", "fetch the head branch locally", func(ctx context.Context) error {
		return withPR(ctx, func(ctx context.Context, env prEnv, n int) error {
			return github.CheckoutPR(ctx, env.Root, env.Target, n)
		})
	}},
}

func viewPR(ctx context.Context, env prEnv, n int) error {
	return github.ViewPR(ctx, env.Root, env.Target, n, false)
}

// withPR lets the user pick one of their pull requests and runs fn on it.
func withPR(ctx context.Context, fn func(context.Context, prEnv, int) error) error {
	env, err := openPR(ctx)
	if err != nil {
		return err
	}
	n, err := prNumberArg(ctx, env, nil)
	if err != nil {
		return err
	}
	return fn(ctx, env, n)
}

func runMenu(ctx context.Context) error {
	return loopMenu(ctx, "forkflow", mainMenu)
}

func runPRMenu(ctx context.Context) error {
	return loopMenu(ctx, "Pull requests", prMenu)
}

// loopMenu shows items until the user quits. A failed action is reported
// and the menu shown again.
func loopMenu(ctx context.Context, title string, items []menuItem) error {
	l := log.FromContext(ctx)

	options := make([]prompt.Option, 0, len(items)+1)
	for _, it := range items {
		options = append(options, prompt.Option{Label: it.label, Hint: it.hint})
	}
	options = append(options, prompt.Option{Label: "Quit"})

	for {
		res, err := prompt.Select(title, options)
		if err != nil {
			return err
		}
		if res.Cancelled || res.Index == len(items) {
			return nil
		}
		if err := items[res.Index].run(ctx); err != nil {
			if errors.Is(err, prompt.ErrCancelled) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.Warn("%v", err)
		}
	}
}
