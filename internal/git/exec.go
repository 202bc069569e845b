package git

import (
	"context"
	"strings"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit runs git in dir. Failures carry git's stderr.
func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

// outputGit is runGit returning stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// outputLine returns stdout with surrounding whitespace removed.
func outputLine(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := outputGit(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// splitLines splits command output into non-empty lines.
func splitLines(out []byte) []string {
	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

// splitNUL splits -z output into entries.
func splitNUL(out []byte) []string {
	var entries []string
	for e := range strings.SplitSeq(string(out), "\x00") {
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}
