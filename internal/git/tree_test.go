package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestListTreeAndShowFile(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()

	writeFile(t, repoPath, "bin/run.sh", "#!/bin/sh\necho hi\n")
	if err := os.Chmod(filepath.Join(repoPath, "bin/run.sh"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, repoPath, "dir with space/notes.md", "notes\n")
	if err := runGit(ctx, repoPath, "add", "."); err != nil {
		t.Fatal(err)
	}
	if err := Commit(ctx, repoPath, "files"); err != nil {
		t.Fatal(err)
	}

	entries, err := ListTree(ctx, repoPath, "HEAD")
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	byPath := map[string]TreeEntry{}
	var paths []string
	for _, e := range entries {
		byPath[e.Path] = e
		paths = append(paths, e.Path)
	}
	assertContains(t, paths, "README.md", "bin/run.sh", "dir with space/notes.md")

	if byPath["bin/run.sh"].FileMode() != 0755 {
		t.Errorf("run.sh mode = %v, want 0755", byPath["bin/run.sh"].FileMode())
	}
	if byPath["README.md"].FileMode() != 0644 {
		t.Errorf("README mode = %v, want 0644", byPath["README.md"].FileMode())
	}

	content, err := ShowFile(ctx, repoPath, "HEAD", "dir with space/notes.md")
	if err != nil {
		t.Fatalf("ShowFile: %v", err)
	}
	if string(content) != "notes\n" {
		t.Errorf("content = %q", content)
	}

	if _, err := ShowFile(ctx, repoPath, "HEAD", "missing.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseTree(t *testing.T) {
	t.Parallel()

	records := []string{
		"100644 blob aaa\t.env",
		"100755 blob bbb\tscripts/dev.sh",
		"120000 blob ccc\tlink",
		"160000 commit ddd\tsubmodule",
		"garbage",
	}
	got := parseTree(records)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(got), got)
	}
	if !got[2].IsSymlink() {
		t.Error("120000 should be a symlink")
	}
	if got[1].Path != "scripts/dev.sh" || got[1].Hash != "bbb" {
		t.Errorf("entry = %+v", got[1])
	}
}
