package github

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// ErrGHNotFound indicates gh CLI is not installed or not in PATH
var ErrGHNotFound = errors.New("gh not found: please install GitHub CLI (https://cli.github.com)")

// ErrGHNotAuthenticated indicates gh CLI is installed but not authenticated
var ErrGHNotAuthenticated = errors.New("gh not authenticated: please run 'gh auth login'")

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CheckGH verifies that gh CLI is available and authenticated
func CheckGH(ctx context.Context) error {
	if _, err := lookPath("gh"); err != nil {
		return ErrGHNotFound
	}

	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := err.Error()
		if strings.Contains(msg, "not logged") || strings.Contains(msg, "no accounts") {
			return ErrGHNotAuthenticated
		}
		if msg != "" {
			return errors.New("gh auth check failed: " + msg)
		}
		return ErrGHNotAuthenticated
	}
	return nil
}
