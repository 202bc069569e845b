package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// IsDirty reports uncommitted changes, untracked files included. Ignored
// files do not count.
func IsDirty(ctx context.Context, path string) (bool, error) {
	out, err := outputGit(ctx, path, "status", "--porcelain", "--untracked-files=normal")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// AheadBehind counts commits in local not in other (ahead) and in other not
// in local (behind).
func AheadBehind(ctx context.Context, path, local, other string) (ahead, behind int, err error) {
	out, err := outputLine(ctx, path, "rev-list", "--left-right", "--count", local+"..."+other)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compare %s with %s: %w", local, other, err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	if ahead, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, err
	}
	if behind, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// IsTracked reports whether file is in the index.
func IsTracked(ctx context.Context, path, file string) (bool, error) {
	out, err := outputGit(ctx, path, "ls-files", "-z", "--", file)
	if err != nil {
		return false, fmt.Errorf("failed to query index: %w", err)
	}
	return len(out) > 0, nil
}
