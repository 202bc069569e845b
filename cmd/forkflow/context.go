package main

import (
	"context"
	"os"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/git"
)

type workDirKey struct{}

func withWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// workDirFromContext returns the directory forkflow was started in.
func workDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok {
		return dir
	}
	dir, _ := os.Getwd()
	return dir
}

// repoEnv is the repository a command operates on and its effective config.
type repoEnv struct {
	Root string
	Cfg  *config.Config
}

// openRepo finds the repository around the working directory and resolves
// its config.
func openRepo(ctx context.Context) (repoEnv, error) {
	dir := workDirFromContext(ctx)
	if !git.IsInsideRepo(ctx, dir) {
		return repoEnv{}, git.ErrNotInRepo
	}
	root, err := git.RepoRoot(ctx, dir)
	if err != nil {
		return repoEnv{}, err
	}
	cfg, err := config.ResolverFromContext(ctx).ForRepo(root)
	if err != nil {
		return repoEnv{}, err
	}
	return repoEnv{Root: root, Cfg: cfg}, nil
}
