package git

import (
	"path/filepath"
	"testing"

	"github.com/Nubebuster/forkflow/internal/gittest"
)

// Repository fixtures come from gittest; these names read better in the
// table tests of this package.

func resolveTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeFile(t *testing.T, repo, name, content string) {
	t.Helper()
	gittest.WriteFile(t, repo, name, content)
}

func commitFile(t *testing.T, repo, name, content, msg string) {
	t.Helper()
	gittest.CommitFile(t, repo, name, content, msg)
}

// setupTestRepo is a repository on main with a single commit.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	return gittest.NewRepo(t)
}

// setupTestRepoWithOrigin is a clone whose main tracks origin/main.
func setupTestRepoWithOrigin(t *testing.T) (repo, origin string) {
	t.Helper()
	f := gittest.NewFork(t)
	return f.Repo, f.Origin
}

func assertContains(t *testing.T, got []string, want ...string) {
	t.Helper()
	for _, w := range want {
		found := false
		for _, g := range got {
			found = found || g == w
		}
		if !found {
			t.Errorf("missing %q in %v", w, got)
		}
	}
}
