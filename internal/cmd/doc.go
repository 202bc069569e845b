// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// The helpers wrap [os/exec.Cmd] so that a failing git or gh invocation
// returns its trimmed stderr as the error text, which is what the user
// needs to see. Every invocation is reported to the context logger so
// --verbose shows the exact commands that ran.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repo, "git", "fetch", "upstream"); err != nil {
//	    return fmt.Errorf("fetch upstream: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, repo, "git", "branch", "--show-current")
//
// RunInteractive connects the child to the terminal, for gh subcommands that
// open an editor or prompt on their own.
//
// # Design Notes
//
// forkflow shells out to the git and gh CLIs rather than using Go git
// libraries, so the user's credential helpers, SSH keys, aliases and gh
// authentication all apply unchanged.
package cmd
