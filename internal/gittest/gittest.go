// Package gittest creates throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Run runs a git command in dir and returns trimmed stdout.
// Global and system git config are ignored so user settings cannot leak in.
func Run(t testing.TB, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_SYSTEM=/dev/null",
	)
	out, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = ee.Stderr
		}
		t.Fatalf("git %v failed: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// ReadFile returns the content of dir/name, failing the test if missing.
func ReadFile(t testing.TB, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// Exists reports whether dir/name exists.
func Exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// CommitFile writes, stages and commits a file.
func CommitFile(t testing.TB, dir, name, content, msg string) {
	t.Helper()
	WriteFile(t, dir, name, content)
	Run(t, dir, "add", name)
	Run(t, dir, "commit", "-m", msg)
}

func configure(t testing.TB, dir string) {
	t.Helper()
	Run(t, dir, "config", "user.email", "test@test.com")
	Run(t, dir, "config", "user.name", "Test User")
	Run(t, dir, "config", "commit.gpgsign", "false")
}

// resolvedTempDir resolves symlinks (needed on macOS where /var -> /private/var).
func resolvedTempDir(t testing.TB) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return dir
}

// NewRepo creates a repository on main with one commit of README.md.
func NewRepo(t testing.TB) string {
	t.Helper()
	repo := filepath.Join(resolvedTempDir(t), "repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatal(err)
	}
	Run(t, repo, "init", "--initial-branch=main")
	configure(t, repo)
	CommitFile(t, repo, "README.md", "# test\n", "initial")
	return repo
}

// Fork is a clone with an origin (the fork) and an upstream bare repo.
type Fork struct {
	Repo     string // working clone
	Origin   string // bare repo the clone pushes to
	Upstream string // bare repo playing the original project
	// Seed is a working clone of Upstream used to add upstream commits.
	Seed string
}

// NewFork creates upstream and origin bare repos sharing one initial commit,
// plus a working clone of origin on main. The upstream remote is not added.
func NewFork(t testing.TB) Fork {
	t.Helper()
	dir := resolvedTempDir(t)
	f := Fork{
		Repo:     filepath.Join(dir, "repo"),
		Origin:   filepath.Join(dir, "origin.git"),
		Upstream: filepath.Join(dir, "upstream.git"),
		Seed:     filepath.Join(dir, "seed"),
	}

	Run(t, dir, "init", "--bare", "--initial-branch=main", f.Upstream)
	Run(t, dir, "clone", "--quiet", f.Upstream, f.Seed)
	configure(t, f.Seed)
	CommitFile(t, f.Seed, "README.md", "# upstream\n", "initial")
	Run(t, f.Seed, "push", "--quiet", "origin", "HEAD:main")

	Run(t, dir, "clone", "--quiet", "--bare", f.Upstream, f.Origin)
	Run(t, dir, "clone", "--quiet", f.Origin, f.Repo)
	configure(t, f.Repo)
	return f
}

// UpstreamCommit adds a commit to upstream's main.
func (f Fork) UpstreamCommit(t testing.TB, name, content, msg string) {
	t.Helper()
	CommitFile(t, f.Seed, name, content, msg)
	Run(t, f.Seed, "push", "--quiet", "origin", "HEAD:main")
}
