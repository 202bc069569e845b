package git

import (
	"context"
	"fmt"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// ConfigGet reads a git config value. ok is false when the key is unset.
func ConfigGet(ctx context.Context, path, key string) (value string, ok bool, err error) {
	out, err := outputLine(ctx, path, "config", "--get", key)
	if err != nil {
		if cmd.ExitCode(err) == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read config %s: %w", key, err)
	}
	return out, true, nil
}

// ConfigUnset removes a key from the repository config. Unsetting a missing
// key is not an error.
func ConfigUnset(ctx context.Context, path, key string) error {
	err := runGit(ctx, path, "config", "--unset", key)
	if err != nil && cmd.ExitCode(err) != 5 {
		return fmt.Errorf("failed to unset config %s: %w", key, err)
	}
	return nil
}

// BranchUpstream returns the remote a local branch tracks, if any.
func BranchUpstream(ctx context.Context, path, branch string) (string, bool, error) {
	return ConfigGet(ctx, path, "branch."+branch+".remote")
}

// UnsetBranchUpstream stops branch from tracking any remote.
func UnsetBranchUpstream(ctx context.Context, path, branch string) error {
	if err := ConfigUnset(ctx, path, "branch."+branch+".remote"); err != nil {
		return err
	}
	return ConfigUnset(ctx, path, "branch."+branch+".merge")
}
