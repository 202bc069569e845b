package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/doctor"
	"github.com/Nubebuster/forkflow/internal/git"
)

// readAllStdin returns piped stdin. A terminal on stdin is an error.
func readAllStdin() (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("expected piped input on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// doctorEnv describes the working directory for the doctor checks. Outside
// a repository the global config is used and repo checks are skipped.
func doctorEnv(ctx context.Context) (doctor.Env, error) {
	dir := workDirFromContext(ctx)
	resolver := config.ResolverFromContext(ctx)
	if !git.IsInsideRepo(ctx, dir) {
		return doctor.Env{Cfg: resolver.Global()}, nil
	}
	env, err := openRepo(ctx)
	if err != nil {
		return doctor.Env{}, err
	}
	return doctor.Env{Repo: env.Root, Cfg: env.Cfg}, nil
}
