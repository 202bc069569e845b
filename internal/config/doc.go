// Package config handles loading and validation of forkflow configuration.
//
// Configuration is read from ~/.config/forkflow/config.toml (or the file
// named by FORKFLOW_CONFIG), overlaid with the per-repo .forkflow.toml and
// finally with environment variables.
//
// # Configuration Sources (highest priority first)
//
//   - FORKFLOW_UPSTREAM_URL, FORKFLOW_UPSTREAM_BRANCH, FORKFLOW_LOCAL_BRANCH
//   - .forkflow.toml at the repository root
//   - Global config file
//   - Default values
//
// # Key Settings
//
//   - upstream.url / upstream.branch: the repository this fork tracks
//   - local.branch: the local-only branch holding backed-up files; never pushed
//   - local.manifest: ignore manifest listing local-only file patterns
//   - branch.types: allowed prefixes for "forkflow create type/name"
//   - merge.strategy: "merge" or "rebase" for "forkflow merge"
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.deps]
//	command = "npm install"
//	on = ["merge", "checkout"]
//
// Hooks with "on" run automatically after matching commands. A local config
// can disable a global hook with enabled = false.
package config
