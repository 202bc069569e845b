package prcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nubebuster/forkflow/internal/github"
	"github.com/Nubebuster/forkflow/internal/gittest"
)

func TestCache_For(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	target := github.Repo{Owner: "up", Name: "proj"}
	prs := []github.PR{{Number: 1, Title: "one"}}

	tests := []struct {
		name  string
		cache Cache
		want  int
	}{
		{"fresh", Cache{Target: "up/proj", CachedAt: now.Add(-time.Hour), PRs: prs}, 1},
		{"stale", Cache{Target: "up/proj", CachedAt: now.Add(-MaxAge - time.Minute), PRs: prs}, 0},
		{"other repo", Cache{Target: "other/proj", CachedAt: now, PRs: prs}, 0},
		{"never written", Cache{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cache.For(target, now); len(got) != tt.want {
				t.Errorf("For() returned %d PRs, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := gittest.NewRepo(t)
	target := github.Repo{Owner: "up", Name: "proj"}

	empty, err := Load(ctx, repo)
	if err != nil {
		t.Fatalf("Load() on missing cache error = %v", err)
	}
	if len(empty.PRs) != 0 || !empty.IsStale(time.Now()) {
		t.Errorf("missing cache should be empty and stale: %+v", empty)
	}

	prs := []github.PR{{Number: 42, Title: "feat: x", Branch: "feat/x"}}
	if err := Save(ctx, repo, target, prs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(ctx, repo)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cached := got.For(target, time.Now())
	if len(cached) != 1 || cached[0].Number != 42 || cached[0].Branch != "feat/x" {
		t.Errorf("For() = %+v, want the saved PR", cached)
	}
}

func TestLoad_Corrupted(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	gittest.WriteFile(t, filepath.Join(repo, ".git", "forkflow"), fileName, "{not json")

	c, err := Load(context.Background(), repo)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.PRs) != 0 {
		t.Errorf("corrupted cache should load empty, got %+v", c)
	}
	if _, err := os.Stat(filepath.Join(repo, ".git", "forkflow", fileName)); err != nil {
		t.Errorf("Load() should not remove the file: %v", err)
	}
}
