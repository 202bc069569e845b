// Package hooks runs user-defined shell commands after forkflow commands.
//
// Hooks are configured in [hooks.NAME] sections of the global config or of
// a repository's .forkflow.toml:
//
//	[hooks.deps]
//	command = "npm ci"
//	description = "Reinstall dependencies"
//	on = ["merge", "checkout"]
//
// A hook runs automatically after every command listed in "on" ("all"
// matches every command). Hooks without "on" only run through
// "forkflow hook NAME". --no-hook skips automatic hooks.
//
// # Placeholders
//
//   - {path}: repository root
//   - {branch}: branch checked out when the hook runs
//   - {repo}: repository folder name
//   - {trigger}: command that triggered the hook
//
// Values are shell-quoted. Custom variables come from --arg key=value and
// are referenced as {key}, {key:raw} (unquoted) or {key:-default}.
// --arg key=- reads the value from piped stdin.
//
// Hooks run with the repository root as working directory. Stdin is only
// passed through when it is a terminal, so piped input is never consumed
// by a hook by accident.
package hooks
