package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Upstream.Ref() != "upstream/main" {
		t.Errorf("Upstream.Ref() = %q, want %q", cfg.Upstream.Ref(), "upstream/main")
	}
	if cfg.Local.Branch != DefaultLocalBranch {
		t.Errorf("Local.Branch = %q, want %q", cfg.Local.Branch, DefaultLocalBranch)
	}
	if !slices.Equal(cfg.Branch.Types, DefaultBranchTypes) {
		t.Errorf("Branch.Types = %v, want %v", cfg.Branch.Types, DefaultBranchTypes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.URL != DefaultUpstreamURL {
		t.Errorf("URL = %q, want default", cfg.Upstream.URL)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[upstream]
branch = "develop"

[merge]
strategy = "rebase"

[hooks.deps]
command = "npm install"
on = ["merge"]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.Branch != "develop" {
		t.Errorf("Upstream.Branch = %q, want develop", cfg.Upstream.Branch)
	}
	if cfg.Upstream.URL != DefaultUpstreamURL {
		t.Errorf("Upstream.URL = %q, want default", cfg.Upstream.URL)
	}
	if cfg.Merge.Strategy != StrategyRebase {
		t.Errorf("Merge.Strategy = %q, want rebase", cfg.Merge.Strategy)
	}
	hook, ok := cfg.Hooks.Hooks["deps"]
	if !ok {
		t.Fatal("missing hook deps")
	}
	if hook.Command != "npm install" || !slices.Equal(hook.On, []string{"merge"}) {
		t.Errorf("hook = %+v", hook)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "theme = ", "failed to parse"},
		{"bad strategy", "[merge]\nstrategy = \"squash\"", "merge.strategy"},
		{"bad base", "[branch]\nbase = \"local\"", "branch.base"},
		{"bad theme", "theme = \"solarized\"", "theme"},
		{"empty types", "[branch]\ntypes = []", "branch.types"},
		{"uppercase type", "[branch]\ntypes = [\"Feat\"]", "branch.types[0]"},
		{"absolute manifest", "[local]\nmanifest = \"/etc/passwd\"", "local.manifest"},
		{"escaping manifest", "[local]\nmanifest = \"../x\"", "local.manifest"},
		{"empty local branch", "[local]\nbranch = \"\"", "local.branch"},
		{"spaced local branch", "[local]\nbranch = \"my files\"", "local.branch"},
		{"substitution in local branch", "[local]\nbranch = \"x$(id)\"", "local.branch"},
		{"backtick in local branch", "[local]\nbranch = \"x`id`\"", "local.branch"},
		{"quote in local branch", "[local]\nbranch = \"x'y\"", "local.branch"},
		{"newline in local branch", "[local]\nbranch = \"x\\ny\"", "local.branch"},
		{"bad pr repo", "[pr]\nrepo = \"nope\"", "pr.repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content)

			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[upstream]\nurl = \"https://example.com/a/b.git\"\n")

	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvUpstreamBranch, "release")
	t.Setenv(EnvLocalBranch, "my-local")
	t.Setenv(EnvUpstreamURL, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.URL != "https://example.com/a/b.git" {
		t.Errorf("URL = %q", cfg.Upstream.URL)
	}
	if cfg.Upstream.Branch != "release" {
		t.Errorf("Branch = %q, want release", cfg.Upstream.Branch)
	}
	if cfg.Local.Branch != "my-local" {
		t.Errorf("Local.Branch = %q, want my-local", cfg.Local.Branch)
	}
}

func TestParseHooksConfig(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"deps": map[string]any{
			"command":     "npm install",
			"description": "Install dependencies",
			"on":          []any{"merge", "checkout"},
		},
		"off": map[string]any{
			"enabled": false,
		},
		"not-a-table": "ignored",
	}

	hc := parseHooksConfig(raw)
	if len(hc.Hooks) != 2 {
		t.Fatalf("len(Hooks) = %d, want 2", len(hc.Hooks))
	}
	if got := hc.Hooks["deps"]; got.Description != "Install dependencies" || len(got.On) != 2 || !got.IsEnabled() {
		t.Errorf("deps = %+v", got)
	}
	if hc.Hooks["off"].IsEnabled() {
		t.Error("off hook should be disabled")
	}

	if empty := parseHooksConfig(nil); empty.Hooks == nil || len(empty.Hooks) != 0 {
		t.Errorf("nil input = %+v, want empty non-nil map", empty)
	}
}

func TestDefaultConfigIsValidTOML(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"global": DefaultConfig(),
		"local":  DefaultLocalConfig(),
	} {
		var raw rawConfig
		if _, err := toml.Decode(content, &raw); err != nil {
			t.Errorf("%s template produces invalid TOML: %v", name, err)
		}
	}
}

func TestDefaultConfigMatchesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, DefaultConfig())

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := Default()
	if cfg.Upstream != want.Upstream || cfg.Local != want.Local || cfg.Merge != want.Merge || cfg.PR != want.PR {
		t.Errorf("template diverges from Default():\n got %+v\nwant %+v", cfg, want)
	}
}

func TestWriteTOML_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Hooks.Hooks["deps"] = Hook{Command: "make deps", On: []string{"all"}}

	var b strings.Builder
	if err := cfg.WriteTOML(&b); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, b.String())
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v\n%s", err, b.String())
	}
	if got.Hooks.Hooks["deps"].Command != "make deps" {
		t.Errorf("hook lost in round trip:\n%s", b.String())
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	t.Setenv(EnvConfigPath, path)

	got, err := Init(false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if _, err := Init(false); err == nil {
		t.Error("second Init without force should fail")
	}
	if _, err := Init(true); err != nil {
		t.Errorf("Init with force: %v", err)
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %s, want %s", tt.opts, got, tt.want)
		}
	}
}
