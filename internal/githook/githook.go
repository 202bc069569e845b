// Package githook installs the pre-push guard that keeps the local-only
// branch from ever leaving the machine.
package githook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nubebuster/forkflow/internal/git"
)

const (
	blockBegin = "# >>> forkflow pre-push guard >>>"
	blockEnd   = "# <<< forkflow pre-push guard <<<"
	shebang    = "#!/bin/sh"
)

// Status describes the guard found in a pre-push hook.
type Status struct {
	Path      string
	Installed bool
	// Branch is the branch the installed guard protects.
	Branch string
}

// HookPath returns the pre-push hook location, honouring core.hooksPath.
func HookPath(ctx context.Context, repo string) (string, error) {
	dir, err := git.GitPath(ctx, repo, "hooks")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pre-push"), nil
}

// guardBlock renders the shell snippet rejecting pushes of branch. git feeds
// "<local ref> <local sha> <remote ref> <remote sha>" lines on stdin.
func guardBlock(branch string) string {
	ref := shellQuote("refs/heads/" + branch)
	return blockBegin + "\n" +
		"# branch: " + branch + "\n" +
		"while read -r local_ref local_sha remote_ref remote_sha; do\n" +
		"\tif [ \"$local_ref\" = " + ref + " ] || [ \"$remote_ref\" = " + ref + " ]; then\n" +
		"\t\techo " + shellQuote("forkflow: refusing to push local-only branch '"+branch+"'") + " >&2\n" +
		"\t\texit 1\n" +
		"\tfi\n" +
		"done\n" +
		blockEnd + "\n"
}

// shellQuote wraps s in single quotes so sh takes it literally.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// PrePushInstalled inspects the pre-push hook of repo.
func PrePushInstalled(ctx context.Context, repo string) (Status, error) {
	path, err := HookPath(ctx, repo)
	if err != nil {
		return Status{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Status{Path: path}, nil
		}
		return Status{}, err
	}
	branch, ok := installedBranch(string(data))
	return Status{Path: path, Installed: ok, Branch: branch}, nil
}

func installedBranch(content string) (string, bool) {
	block, _, _, ok := cutGuard(content)
	if !ok {
		return "", false
	}
	for line := range strings.SplitSeq(block, "\n") {
		if b, found := strings.CutPrefix(line, "# branch: "); found {
			return b, true
		}
	}
	return "", true
}

// cutGuard locates the guard block, returning it and the text around it.
func cutGuard(content string) (block, before, after string, ok bool) {
	start := strings.Index(content, blockBegin)
	if start < 0 {
		return "", content, "", false
	}
	end := strings.Index(content[start:], blockEnd)
	if end < 0 {
		return "", content, "", false
	}
	end += start + len(blockEnd)
	after = strings.TrimPrefix(content[end:], "\n")
	return content[start:end], content[:start], after, true
}

// InstallPrePush appends the guard for branch to the pre-push hook, creating
// an executable hook if none exists. A guard for the same branch is left
// alone; a guard for another branch is replaced in place. Returns whether
// the hook changed.
func InstallPrePush(ctx context.Context, repo, branch string) (bool, error) {
	if branch == "" || strings.ContainsAny(branch, "\r\n") {
		return false, fmt.Errorf("invalid branch name %q", branch)
	}
	path, err := HookPath(ctx, repo)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)

	updated, changed := withGuard(content, branch)
	if !changed {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(updated), 0o755); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return false, err
	}
	return true, nil
}

func withGuard(content, branch string) (string, bool) {
	if current, ok := installedBranch(content); ok {
		if current == branch {
			return content, false
		}
		_, before, after, _ := cutGuard(content)
		return before + guardBlock(branch) + after, true
	}

	if content == "" {
		return shebang + "\n" + guardBlock(branch), true
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + guardBlock(branch), true
}
