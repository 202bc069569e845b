package git

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestReplaceBlock(t *testing.T) {
	t.Parallel()

	block := ExcludeBegin + "\n.env\n" + ExcludeEnd + "\n"

	tests := []struct {
		name     string
		content  string
		patterns []string
		want     string
	}{
		{"empty file", "", []string{".env"}, block},
		{"append after user lines", "*.log", []string{".env"}, "*.log\n" + block},
		{"replace existing", "*.log\n" + ExcludeBegin + "\nold\n" + ExcludeEnd + "\ntail\n", []string{".env"}, "*.log\n" + block + "tail\n"},
		{"remove when empty", "*.log\n" + block, nil, "*.log\n"},
		{"idempotent", block, []string{".env"}, block},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := replaceBlock(tt.content, tt.patterns); got != tt.want {
				t.Errorf("replaceBlock() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestSyncExcludeBlock(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()
	patterns := []string{".local-files", ".env", "scratch/"}

	changed, err := SyncExcludeBlock(ctx, repoPath, patterns)
	if err != nil {
		t.Fatalf("SyncExcludeBlock: %v", err)
	}
	if !changed {
		t.Error("first sync should change the file")
	}
	changed, err = SyncExcludeBlock(ctx, repoPath, patterns)
	if err != nil || changed {
		t.Errorf("second sync changed=%v err=%v, want no-op", changed, err)
	}

	got, err := ExcludeBlock(ctx, repoPath)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, patterns) {
		t.Errorf("block = %v, want %v", got, patterns)
	}
	if ok, _ := ExcludeBlockInSync(ctx, repoPath, patterns); !ok {
		t.Error("block should be in sync")
	}
	if ok, _ := ExcludeBlockInSync(ctx, repoPath, patterns[:1]); ok {
		t.Error("block should not match a different list")
	}

	// git honours the block
	writeFile(t, repoPath, ".env", "x")
	if dirty, _ := IsDirty(ctx, repoPath); dirty {
		t.Error(".env should be excluded from status")
	}

	data, err := os.ReadFile(filepath.Join(repoPath, ".git", "info", "exclude"))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(splitLines(data), ExcludeBegin) {
		t.Errorf("exclude file missing marker:\n%s", data)
	}
}

func TestListMatchingUntracked(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()

	commitFile(t, repoPath, "tracked.env", "tracked", "tracked env")
	commitFile(t, repoPath, ".gitignore", "GEMINI.md\n", "gitignore")
	writeFile(t, repoPath, ".env", "a")
	writeFile(t, repoPath, "GEMINI.md", "b")
	writeFile(t, repoPath, "scratch/one.txt", "c")
	writeFile(t, repoPath, "scratch/deep/two.txt", "d")
	writeFile(t, repoPath, "other.txt", "e")

	manifest := filepath.Join(repoPath, ".local-files")
	if err := os.WriteFile(manifest, []byte("# local\n*.env\nGEMINI.md\nscratch/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ListMatchingUntracked(ctx, repoPath, manifest)
	if err != nil {
		t.Fatalf("ListMatchingUntracked: %v", err)
	}
	want := []string{".env", "GEMINI.md", "scratch/deep/two.txt", "scratch/one.txt"}
	if !slices.Equal(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestCheckIgnore(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()

	commitFile(t, repoPath, ".gitignore", "*.env\n!keep.env\n", "gitignore")
	writeFile(t, repoPath, ".env", "a")
	writeFile(t, repoPath, "keep.env", "b")
	writeFile(t, repoPath, "plain.txt", "c")

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"mixed", []string{"plain.txt", ".env", "keep.env"}, []string{".env"}},
		{"none ignored", []string{"plain.txt", "keep.env"}, nil},
		{"tracked file", []string{".gitignore"}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CheckIgnore(ctx, repoPath, tt.paths...)
			if err != nil {
				t.Fatalf("CheckIgnore: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("CheckIgnore = %v, want %v", got, tt.want)
			}
		})
	}
}
