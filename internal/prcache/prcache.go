// Package prcache keeps the last "forkflow pr list" result of a repository
// in <git-common-dir>/forkflow/prs.json so shell completion can offer PR
// numbers without calling GitHub.
package prcache

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/github"
	"github.com/Nubebuster/forkflow/internal/storage"
)

// MaxAge is how long a listing is offered for completion.
const MaxAge = 24 * time.Hour

const fileName = "prs.json"

// Cache is the last PR listing of one target repository.
type Cache struct {
	Target   string      `json:"target"` // owner/name the PRs belong to
	CachedAt time.Time   `json:"cached_at"`
	PRs      []github.PR `json:"prs"`
}

// IsStale reports whether the listing is older than MaxAge at now.
func (c *Cache) IsStale(now time.Time) bool {
	return c.CachedAt.IsZero() || now.Sub(c.CachedAt) > MaxAge
}

// For returns the cached PRs when they belong to target and are fresh.
func (c *Cache) For(target github.Repo, now time.Time) []github.PR {
	if c.Target != target.String() || c.IsStale(now) {
		return nil
	}
	return c.PRs
}

// Load reads the cache of the repository at repo. A missing or corrupted
// file yields an empty cache.
func Load(ctx context.Context, repo string) (*Cache, error) {
	common, err := git.GitCommonDir(ctx, repo)
	if err != nil {
		return nil, err
	}
	var c Cache
	if err := storage.LoadJSON(filepath.Join(common, storage.StateDirName, fileName), &c); err != nil {
		// Missing or corrupted - start fresh
		return &Cache{}, nil
	}
	return &c, nil
}

// Save replaces the cache of the repository at repo.
func Save(ctx context.Context, repo string, target github.Repo, prs []github.PR) error {
	common, err := git.GitCommonDir(ctx, repo)
	if err != nil {
		return err
	}
	dir, err := storage.StateDir(common)
	if err != nil {
		return err
	}
	return storage.SaveJSON(filepath.Join(dir, fileName), Cache{
		Target:   target.String(),
		CachedAt: time.Now().UTC(),
		PRs:      prs,
	})
}
