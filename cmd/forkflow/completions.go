package main

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/output"
	"github.com/Nubebuster/forkflow/internal/prcache"
)

// completeBranches completes local and remote branch names.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	env, err := openRepo(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	options, err := branchOptions(cmd.Context(), env)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return options, cobra.ShellCompDirectiveNoFileComp
}

// completeBranchTypes completes the "type/" prefix of a new branch.
func completeBranchTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || strings.Contains(toComplete, "/") {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	env, err := openRepo(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, len(env.Cfg.Branch.Types))
	for i, t := range env.Cfg.Branch.Types {
		out[i] = t + "/"
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeHooks completes hook names for --hook.
func completeHooks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	env, err := openRepo(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, name := range slices.Sorted(maps.Keys(env.Cfg.Hooks.Hooks)) {
		h := env.Cfg.Hooks.Hooks[name]
		if !h.IsEnabled() {
			continue
		}
		if h.Description != "" {
			name += "\t" + h.Description
		}
		out = append(out, name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeHookArg completes the positional hook name of "forkflow hook".
func completeHookArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeHooks(cmd, args, toComplete)
}

// completePRNumbers offers the PRs of the last "forkflow pr list".
func completePRNumbers(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	env, err := openRepo(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	target, err := prRepo(env.Cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cache, err := prcache.Load(ctx, env.Root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, pr := range cache.For(target, time.Now()) {
		out = append(out, strconv.Itoa(pr.Number)+"\t"+pr.Title)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
