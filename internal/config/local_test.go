package config

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestLoadLocal_NoFile(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != nil {
		t.Fatalf("expected nil, got %+v", local)
	}
}

func TestLoadLocal_AllFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LocalConfigFileName), `
[upstream]
url = "git@github.com:acme/widget.git"

[local]
branch = "private"

[branch]
types = ["feat", "fix"]
base = "current"

[merge]
strategy = "rebase"
push = true

[pr]
draft = true

[hooks.deps]
command = "make"
`)

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.Upstream.URL != "git@github.com:acme/widget.git" {
		t.Errorf("Upstream.URL = %q", local.Upstream.URL)
	}
	if local.Local.Branch != "private" {
		t.Errorf("Local.Branch = %q", local.Local.Branch)
	}
	if !slices.Equal(local.Branch.Types, []string{"feat", "fix"}) || local.Branch.Base != BaseCurrent {
		t.Errorf("Branch = %+v", local.Branch)
	}
	if local.Merge.Push == nil || !*local.Merge.Push {
		t.Error("Merge.Push should be set to true")
	}
	if local.PR.Draft == nil || !*local.PR.Draft {
		t.Error("PR.Draft should be set to true")
	}
	if local.Hooks.Hooks["deps"].Command != "make" {
		t.Errorf("hooks = %+v", local.Hooks.Hooks)
	}
}

func TestLoadLocal_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"strategy", "[merge]\nstrategy = \"octopus\"", "merge.strategy"},
		{"base", "[branch]\nbase = \"remote\"", "branch.base"},
		{"manifest", "[local]\nmanifest = \"/abs\"", "local.manifest"},
		{"syntax", "[merge", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, LocalConfigFileName), tt.content)
			_, err := LoadLocal(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestInitLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := InitLocal(dir, false)
	if err != nil {
		t.Fatalf("InitLocal: %v", err)
	}
	if path != filepath.Join(dir, LocalConfigFileName) {
		t.Errorf("path = %q", path)
	}
	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("template should load: %v", err)
	}
	if local == nil {
		t.Fatal("expected non-nil config from template")
	}
}
