package config

import (
	"context"
	"os"
	"path/filepath"
)

type resolverKey struct{}

// resolved is the effective config of one repository.
type resolved struct {
	cfg   *Config
	local string // path of the .forkflow.toml that was merged, or ""
}

// Resolver hands out the effective config of a repository: the global
// config, overlaid with the repo's .forkflow.toml, overlaid with the
// FORKFLOW_* environment. Results are memoised per repository root.
type Resolver struct {
	global *Config
	getenv func(string) string
	repos  map[string]resolved
}

// NewResolver returns a resolver over an already loaded global config.
func NewResolver(global *Config) *Resolver {
	return &Resolver{global: global, getenv: os.Getenv, repos: map[string]resolved{}}
}

func (r *Resolver) resolve(root string) (resolved, error) {
	root = filepath.Clean(root)
	if res, ok := r.repos[root]; ok {
		return res, nil
	}

	local, err := LoadLocal(root)
	if err != nil {
		return resolved{}, err
	}
	res := resolved{cfg: r.global}
	if local != nil {
		// The global config already carries the environment; re-apply it so
		// env still wins over values the repo file set.
		res.cfg = MergeLocal(r.global, local)
		ApplyEnv(res.cfg, r.getenv)
		if err := res.cfg.Validate(); err != nil {
			return resolved{}, err
		}
		res.local = filepath.Join(root, LocalConfigFileName)
	}
	r.repos[root] = res
	return res, nil
}

// ForRepo returns the effective config of the repository at root.
func (r *Resolver) ForRepo(root string) (*Config, error) {
	res, err := r.resolve(root)
	return res.cfg, err
}

// LocalSource returns the repo config file merged into ForRepo(root), or ""
// when the repository has none.
func (r *Resolver) LocalSource(root string) (string, error) {
	res, err := r.resolve(root)
	return res.local, err
}

// Global returns the config without repository overrides.
func (r *Resolver) Global() *Config {
	return r.global
}

// WithResolver stores r in ctx.
func WithResolver(ctx context.Context, r *Resolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the resolver stored in ctx, or one over the
// defaults.
func ResolverFromContext(ctx context.Context) *Resolver {
	if r, ok := ctx.Value(resolverKey{}).(*Resolver); ok {
		return r
	}
	cfg := Default()
	return NewResolver(&cfg)
}
