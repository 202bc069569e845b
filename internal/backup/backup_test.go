package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/gittest"
	"github.com/Nubebuster/forkflow/internal/log"
)

const localBranch = "local-files"

// testContext returns a context with a discarding logger.
func testContext() context.Context {
	return log.WithLogger(context.Background(), log.New(io.Discard, false, true))
}

// setupLocalRepo creates a repo with a manifest, synced exclude block and
// three local files.
func setupLocalRepo(t *testing.T) string {
	t.Helper()
	repo := gittest.NewRepo(t)
	gittest.WriteFile(t, repo, ".local-files", ".env\nnotes/\n")
	gittest.WriteFile(t, repo, ".env", "SECRET=1\n")
	gittest.WriteFile(t, repo, "notes/todo.md", "- ship it\n")
	if _, err := git.SyncExcludeBlock(context.Background(), repo, []string{"/.local-files", ".env", "notes/"}); err != nil {
		t.Fatal(err)
	}
	return repo
}

func treePaths(t *testing.T, repo string) []string {
	t.Helper()
	entries, err := git.ListTree(context.Background(), repo, localBranch)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

func TestBackup(t *testing.T) {
	t.Parallel()

	repo := setupLocalRepo(t)
	ctx := testContext()

	// work in progress that must survive
	gittest.WriteFile(t, repo, "README.md", "# changed\n")
	gittest.WriteFile(t, repo, "wip.go", "package wip\n")

	files := []string{".env", ".local-files", "notes/todo.md"}
	res, err := Backup(ctx, Options{Repo: repo, Branch: localBranch, Files: files})
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if !res.Committed || res.Commit == "" || res.ID == "" {
		t.Errorf("result = %+v", res)
	}

	if b := gittest.Run(t, repo, "branch", "--show-current"); b != "main" {
		t.Errorf("current branch = %q, want main", b)
	}
	if got := gittest.ReadFile(t, repo, "README.md"); got != "# changed\n" {
		t.Errorf("README.md = %q, tracked change lost", got)
	}
	if !gittest.Exists(repo, "wip.go") {
		t.Error("untracked file lost")
	}
	for _, f := range files {
		if !gittest.Exists(repo, f) {
			t.Errorf("local file %s missing after backup", f)
		}
	}
	if list := gittest.Run(t, repo, "stash", "list"); list != "" {
		t.Errorf("stash not popped: %s", list)
	}

	if got := treePaths(t, repo); !slices.Equal(got, files) {
		t.Errorf("branch files = %v, want %v", got, files)
	}
	msg := gittest.Run(t, repo, "log", "-1", "--format=%B", localBranch)
	if !strings.HasPrefix(msg, "backup: 3 local files") || !strings.Contains(msg, "Backup-Id: "+res.ID) {
		t.Errorf("commit message = %q", msg)
	}

	rec, err := LastRecord(ctx, repo)
	if err != nil || rec == nil {
		t.Fatalf("LastRecord = %v, %v", rec, err)
	}
	if rec.ID != res.ID || rec.Time.IsZero() {
		t.Errorf("record = %+v", rec)
	}
}

func TestBackup_NoChanges(t *testing.T) {
	t.Parallel()

	repo := setupLocalRepo(t)
	ctx := testContext()
	opts := Options{Repo: repo, Branch: localBranch, Files: []string{".env"}}

	if _, err := Backup(ctx, opts); err != nil {
		t.Fatal(err)
	}
	res, err := Backup(ctx, opts)
	if err != nil {
		t.Fatalf("second Backup: %v", err)
	}
	if res.Committed {
		t.Error("unchanged files should not produce a commit")
	}
	if n := gittest.Run(t, repo, "rev-list", "--count", localBranch); n != "2" {
		t.Errorf("commit count = %s, want 2 (root + one backup)", n)
	}
}

func TestBackup_ProtectsUnselectedFiles(t *testing.T) {
	t.Parallel()

	repo := setupLocalRepo(t)
	ctx := testContext()

	if _, err := Backup(ctx, Options{Repo: repo, Branch: localBranch, Files: []string{".env", "notes/todo.md"}}); err != nil {
		t.Fatal(err)
	}

	// notes changes locally but is not part of the next backup
	gittest.WriteFile(t, repo, "notes/todo.md", "- newer\n")
	gittest.WriteFile(t, repo, ".env", "SECRET=2\n")

	if _, err := Backup(ctx, Options{Repo: repo, Branch: localBranch, Files: []string{".env"}}); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if got := gittest.ReadFile(t, repo, "notes/todo.md"); got != "- newer\n" {
		t.Errorf("unselected file clobbered: %q", got)
	}
	if got := gittest.Run(t, repo, "show", localBranch+":notes/todo.md"); got != "- ship it" {
		t.Errorf("branch copy of unselected file changed: %q", got)
	}
	if got := gittest.Run(t, repo, "show", localBranch+":.env"); got != "SECRET=2" {
		t.Errorf("branch .env = %q", got)
	}
}

func TestBackup_DetachedHead(t *testing.T) {
	t.Parallel()

	repo := setupLocalRepo(t)
	head := gittest.Run(t, repo, "rev-parse", "HEAD")
	gittest.Run(t, repo, "checkout", "--quiet", head)

	if _, err := Backup(testContext(), Options{Repo: repo, Branch: localBranch, Files: []string{".env"}}); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if got := gittest.Run(t, repo, "rev-parse", "HEAD"); got != head {
		t.Errorf("HEAD = %s, want %s", got, head)
	}
	if b := gittest.Run(t, repo, "branch", "--show-current"); b != "" {
		t.Errorf("expected detached HEAD, on %q", b)
	}
}

func TestBackup_Refusals(t *testing.T) {
	t.Parallel()

	repo := setupLocalRepo(t)
	ctx := testContext()

	if _, err := Backup(ctx, Options{Repo: repo, Branch: localBranch}); !errors.Is(err, ErrNoLocalFiles) {
		t.Errorf("no files: err = %v, want ErrNoLocalFiles", err)
	}

	gittest.Run(t, repo, "checkout", "--quiet", "-b", localBranch)
	if _, err := Backup(ctx, Options{Repo: repo, Branch: localBranch, Files: []string{".env"}}); !errors.Is(err, ErrOnLocalBranch) {
		t.Errorf("on local branch: err = %v, want ErrOnLocalBranch", err)
	}
}

func TestBackup_MissingFileLeavesRepoAlone(t *testing.T) {
	t.Parallel()

	repo := setupLocalRepo(t)
	gittest.WriteFile(t, repo, "README.md", "# dirty\n")

	_, err := Backup(testContext(), Options{Repo: repo, Branch: localBranch, Files: []string{".env", "notes/missing.md"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if ok, _ := git.BranchExists(context.Background(), repo, localBranch); ok {
		t.Error("local branch should not be created")
	}
	if got := gittest.ReadFile(t, repo, "README.md"); got != "# dirty\n" {
		t.Errorf("README.md = %q", got)
	}
	if !gittest.Exists(repo, ".env") {
		t.Error(".env removed")
	}
}

func TestBackup_RejectsVisibleFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T, repo string)
		file  string
	}{
		{
			name: "re-included by gitignore",
			setup: func(t *testing.T, repo string) {
				gittest.WriteFile(t, repo, "GEMINI.md", "context\n")
				gittest.WriteFile(t, repo, ".gitignore", "!GEMINI.md\n")
				gittest.Run(t, repo, "add", ".gitignore")
				gittest.Run(t, repo, "commit", "--quiet", "-m", "gitignore")
				if _, err := git.SyncExcludeBlock(context.Background(), repo, []string{"/.local-files", ".env", "notes/", "GEMINI.md"}); err != nil {
					t.Fatal(err)
				}
			},
			file: "GEMINI.md",
		},
		{
			name: "untracked and not excluded",
			setup: func(t *testing.T, repo string) {
				gittest.WriteFile(t, repo, "scratch.txt", "tmp\n")
			},
			file: "scratch.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := setupLocalRepo(t)
			tt.setup(t, repo)
			gittest.WriteFile(t, repo, "README.md", "# dirty\n")

			_, err := Backup(testContext(), Options{Repo: repo, Branch: localBranch, Files: []string{".env", tt.file}})
			if !errors.Is(err, ErrNotIgnored) {
				t.Fatalf("err = %v, want ErrNotIgnored", err)
			}
			if !strings.Contains(err.Error(), tt.file) {
				t.Errorf("error does not name %s: %v", tt.file, err)
			}
			if list := gittest.Run(t, repo, "stash", "list"); list != "" {
				t.Errorf("stash created: %s", list)
			}
			if ok, _ := git.BranchExists(context.Background(), repo, localBranch); ok {
				t.Error("local branch should not be created")
			}
			if got := gittest.ReadFile(t, repo, "README.md"); got != "# dirty\n" {
				t.Errorf("README.md = %q", got)
			}
			if !gittest.Exists(repo, tt.file) {
				t.Errorf("%s removed", tt.file)
			}
		})
	}
}

func TestBackup_RollbackOnCommitFailure(t *testing.T) {
	// Not parallel: the environment must not supply a committer identity.
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
	for _, k := range []string{"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL", "EMAIL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	repo := setupLocalRepo(t)
	ctx := testContext()
	if _, err := Backup(ctx, Options{Repo: repo, Branch: localBranch, Files: []string{".env"}}); err != nil {
		t.Fatal(err)
	}
	before := gittest.Run(t, repo, "rev-parse", localBranch)

	gittest.WriteFile(t, repo, ".env", "SECRET=changed\n")
	gittest.WriteFile(t, repo, "README.md", "# dirty\n")
	gittest.Run(t, repo, "config", "--unset", "user.email")
	gittest.Run(t, repo, "config", "--unset", "user.name")
	gittest.Run(t, repo, "config", "user.useConfigOnly", "true")

	_, err := Backup(ctx, Options{Repo: repo, Branch: localBranch, Files: []string{".env", "notes/todo.md"}})
	if err == nil {
		t.Fatal("expected commit failure")
	}

	if b := gittest.Run(t, repo, "branch", "--show-current"); b != "main" {
		t.Errorf("current branch = %q, want main", b)
	}
	if got := gittest.ReadFile(t, repo, ".env"); got != "SECRET=changed\n" {
		t.Errorf(".env = %q, want local content back", got)
	}
	if got := gittest.ReadFile(t, repo, "notes/todo.md"); got != "- ship it\n" {
		t.Errorf("notes/todo.md = %q", got)
	}
	if got := gittest.ReadFile(t, repo, "README.md"); got != "# dirty\n" {
		t.Errorf("README.md = %q, stash not popped", got)
	}
	if list := gittest.Run(t, repo, "stash", "list"); list != "" {
		t.Errorf("stash left behind: %s", list)
	}
	if after := gittest.Run(t, repo, "rev-parse", localBranch); after != before {
		t.Error("local branch moved despite failure")
	}
}

func TestCommitMessage(t *testing.T) {
	t.Parallel()

	if got := commitMessage(1, "abc"); got != "backup: 1 local file\n\nBackup-Id: abc" {
		t.Errorf("commitMessage(1) = %q", got)
	}
	if got := commitMessage(2, "abc"); !strings.HasPrefix(got, "backup: 2 local files") {
		t.Errorf("commitMessage(2) = %q", got)
	}
}
