package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo override file at the repository root.
const LocalConfigFileName = ".forkflow.toml"

// LocalConfig holds per-repo configuration overrides from .forkflow.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	Hooks    HooksConfig      `toml:"-"` // merge by name into global
	Upstream UpstreamConfig   `toml:"upstream"`
	Local    LocalFilesConfig `toml:"local"`
	Branch   LocalBranch      `toml:"branch"`
	Merge    LocalMerge       `toml:"merge"`
	PR       LocalPR          `toml:"pr"`
}

// LocalBranch holds local branch creation overrides
type LocalBranch struct {
	Types []string `toml:"types"`
	Base  string   `toml:"base"`
}

// LocalMerge holds local merge overrides
type LocalMerge struct {
	Strategy string `toml:"strategy"`
	Push     *bool  `toml:"push"`
}

// LocalPR holds local pull request overrides
type LocalPR struct {
	Repo  string `toml:"repo"`
	Draft *bool  `toml:"draft"`
}

// rawLocalConfig is used for initial TOML parsing before processing hooks
type rawLocalConfig struct {
	Hooks    map[string]any   `toml:"hooks"`
	Upstream UpstreamConfig   `toml:"upstream"`
	Local    LocalFilesConfig `toml:"local"`
	Branch   LocalBranch      `toml:"branch"`
	Merge    LocalMerge       `toml:"merge"`
	PR       LocalPR          `toml:"pr"`
}

// LoadLocal reads a per-repo .forkflow.toml from the given repo root.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	local := &LocalConfig{
		Hooks:    parseHooksConfig(raw.Hooks),
		Upstream: raw.Upstream,
		Local:    raw.Local,
		Branch:   raw.Branch,
		Merge:    raw.Merge,
		PR:       raw.PR,
	}

	if err := validateEnum(local.Merge.Strategy, "merge.strategy", ValidMergeStrategies); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateEnum(local.Branch.Base, "branch.base", ValidBases); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if local.Local.Manifest != "" {
		if err := validateManifestPath(local.Local.Manifest); err != nil {
			return nil, fmt.Errorf("%w in %s", err, configFile)
		}
	}

	return local, nil
}

// InitLocal writes the local template into repoPath.
func InitLocal(repoPath string, force bool) (string, error) {
	path := filepath.Join(repoPath, LocalConfigFileName)
	return path, writeTemplate(path, defaultLocalConfig, force)
}

// defaultLocalConfig is the template for forkflow config init --local
const defaultLocalConfig = `# forkflow local config (per-repo overrides)
# Settings here override the global config for this repository only.

# [upstream]
# url = "https://github.com/owner/project.git"
# branch = "main"

# [local]
# branch = "local-files"
# manifest = ".local-files"

# [branch]
# types = ["feat", "fix", "chore"]
# base = "current"

# [merge]
# strategy = "rebase"
# push = true

# [pr]
# repo = "owner/project"
# draft = true

# Hooks - add repo-specific hooks or override global hooks
# Set enabled = false to disable a global hook for this repo
#
# [hooks.deps]
# command = "npm ci"
# on = ["merge", "checkout"]
#
# [hooks.global-hook-name]
# enabled = false
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
