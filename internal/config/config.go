package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variables read by Load.
const (
	EnvConfigPath     = "FORKFLOW_CONFIG"
	EnvUpstreamURL    = "FORKFLOW_UPSTREAM_URL"
	EnvUpstreamBranch = "FORKFLOW_UPSTREAM_BRANCH"
	EnvLocalBranch    = "FORKFLOW_LOCAL_BRANCH"
)

// Defaults for a fresh install.
const (
	DefaultUpstreamRemote = "upstream"
	DefaultUpstreamURL    = "https://github.com/google-gemini/gemini-cli.git"
	DefaultUpstreamBranch = "main"
	DefaultLocalBranch    = "local-files"
	DefaultManifest       = ".local-files"
	DefaultGraphQLURL     = "https://api.github.com/graphql"
)

// DefaultBranchTypes are the conventional-commit prefixes accepted by create.
var DefaultBranchTypes = []string{"feat", "fix", "chore", "docs", "refactor", "test", "perf", "ci", "build", "style"}

// Hook defines a command run after a forkflow command completes.
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description,omitempty"`
	On          []string `toml:"on,omitempty"` // commands this hook runs on (empty = never automatic)
	Enabled     *bool    `toml:"enabled,omitempty"`
}

// IsEnabled returns true unless the hook was explicitly disabled.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// UpstreamConfig describes the repository the fork tracks.
type UpstreamConfig struct {
	Remote string `toml:"remote"`
	URL    string `toml:"url"`
	Branch string `toml:"branch"`
}

// Ref returns the remote-tracking ref, e.g. "upstream/main".
func (u UpstreamConfig) Ref() string {
	return u.Remote + "/" + u.Branch
}

// LocalFilesConfig names the local-only branch and the ignore manifest.
type LocalFilesConfig struct {
	Branch   string `toml:"branch"`
	Manifest string `toml:"manifest"`
}

// BranchConfig controls "forkflow create".
type BranchConfig struct {
	Types []string `toml:"types"`
	Base  string   `toml:"base"` // "upstream" or "current"
}

// MergeConfig controls "forkflow merge".
type MergeConfig struct {
	Strategy string `toml:"strategy"` // "merge" or "rebase"
	Push     bool   `toml:"push"`
}

// PRConfig controls the pr command group.
type PRConfig struct {
	Repo       string `toml:"repo"` // owner/name; derived from upstream.url when empty
	Draft      bool   `toml:"draft"`
	GraphQLURL string `toml:"graphql_url"`
}

// Config holds the forkflow configuration
type Config struct {
	Theme    string           `toml:"theme"`
	Upstream UpstreamConfig   `toml:"upstream"`
	Local    LocalFilesConfig `toml:"local"`
	Branch   BranchConfig     `toml:"branch"`
	Merge    MergeConfig      `toml:"merge"`
	PR       PRConfig         `toml:"pr"`
	Hooks    HooksConfig      `toml:"-"` // custom parsing needed
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Theme: "default",
		Upstream: UpstreamConfig{
			Remote: DefaultUpstreamRemote,
			URL:    DefaultUpstreamURL,
			Branch: DefaultUpstreamBranch,
		},
		Local: LocalFilesConfig{
			Branch:   DefaultLocalBranch,
			Manifest: DefaultManifest,
		},
		Branch: BranchConfig{
			Types: append([]string(nil), DefaultBranchTypes...),
			Base:  BaseUpstream,
		},
		Merge: MergeConfig{Strategy: StrategyMerge},
		PR:    PRConfig{GraphQLURL: DefaultGraphQLURL},
		Hooks: HooksConfig{Hooks: map[string]Hook{}},
	}
}

// Path returns the path of the global config file.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "forkflow", "config.toml"), nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	Theme    string           `toml:"theme"`
	Upstream UpstreamConfig   `toml:"upstream"`
	Local    LocalFilesConfig `toml:"local"`
	Branch   BranchConfig     `toml:"branch"`
	Merge    MergeConfig      `toml:"merge"`
	PR       PRConfig         `toml:"pr"`
	Hooks    map[string]any   `toml:"hooks"`
}

// Load reads the global config file and applies environment overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		ApplyEnv(&cfg, os.Getenv)
		return cfg, nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Default(), err
	}
	ApplyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFile reads a global config file. Unset keys keep their defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding into a defaults-filled struct keeps keys the file omits.
	d := Default()
	raw := rawConfig{
		Theme:    d.Theme,
		Upstream: d.Upstream,
		Local:    d.Local,
		Branch:   d.Branch,
		Merge:    d.Merge,
		PR:       d.PR,
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Config{
		Theme:    raw.Theme,
		Upstream: raw.Upstream,
		Local:    raw.Local,
		Branch:   raw.Branch,
		Merge:    raw.Merge,
		PR:       raw.PR,
		Hooks:    parseHooksConfig(raw.Hooks),
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the FORKFLOW_* environment variables onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvUpstreamURL); v != "" {
		cfg.Upstream.URL = v
	}
	if v := getenv(EnvUpstreamBranch); v != "" {
		cfg.Upstream.Branch = v
	}
	if v := getenv(EnvLocalBranch); v != "" {
		cfg.Local.Branch = v
	}
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if enabled, ok := hookMap["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		hc.Hooks[key] = hook
	}

	return hc
}

// WriteTOML encodes the effective configuration, hooks included.
func (c Config) WriteTOML(w io.Writer) error {
	out := struct {
		Theme    string           `toml:"theme"`
		Upstream UpstreamConfig   `toml:"upstream"`
		Local    LocalFilesConfig `toml:"local"`
		Branch   BranchConfig     `toml:"branch"`
		Merge    MergeConfig      `toml:"merge"`
		PR       PRConfig         `toml:"pr"`
		Hooks    map[string]Hook  `toml:"hooks,omitempty"`
	}{c.Theme, c.Upstream, c.Local, c.Branch, c.Merge, c.PR, c.Hooks.Hooks}
	return toml.NewEncoder(w).Encode(out)
}

// DefaultConfig returns the template written by "forkflow config init".
func DefaultConfig() string {
	return defaultConfig
}

const defaultConfig = `# forkflow configuration
# Location: ~/.config/forkflow/config.toml (override with FORKFLOW_CONFIG)
# Per-repo overrides go in .forkflow.toml at the repository root.

# UI theme: default, dracula, nord or none
theme = "default"

# The repository your fork tracks.
# FORKFLOW_UPSTREAM_URL and FORKFLOW_UPSTREAM_BRANCH override these.
[upstream]
remote = "upstream"
url = "https://github.com/google-gemini/gemini-cli.git"
branch = "main"

# Local-only files. The branch is never pushed: "forkflow setup" installs a
# pre-push hook that rejects it. FORKFLOW_LOCAL_BRANCH overrides the branch.
[local]
branch = "local-files"
manifest = ".local-files"

# Branch creation for "forkflow create type/name"
[branch]
types = ["feat", "fix", "chore", "docs", "refactor", "test", "perf", "ci", "build", "style"]
base = "upstream"   # "upstream" branches off upstream/<branch>, "current" off HEAD

# Upstream sync for "forkflow merge"
[merge]
strategy = "merge"  # "merge" or "rebase"
push = false        # push to origin after a clean sync

# Pull requests
[pr]
# repo = "owner/name"   # defaults to the repo of upstream.url
draft = false
graphql_url = "https://api.github.com/graphql"

# Hooks run after commands. Placeholders:
#   {branch}  - current branch after the command
#   {repo}    - repository folder name
#   {path}    - repository root
#   {trigger} - command that ran (merge, checkout, create, backup, restore)
#
# [hooks.deps]
# command = "npm install"
# description = "Refresh dependencies"
# on = ["merge", "checkout"]
`

// Init writes the default config file.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, writeTemplate(path, defaultConfig, force)
}

func writeTemplate(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
