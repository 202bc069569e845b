package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// RemoteURL returns the fetch URL of a remote. ok is false when the remote
// does not exist.
func RemoteURL(ctx context.Context, path, remote string) (url string, ok bool, err error) {
	out, err := outputLine(ctx, path, "remote", "get-url", remote)
	if err != nil {
		if cmd.ExitCode(err) == 2 || strings.Contains(err.Error(), "No such remote") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read remote %s: %w", remote, err)
	}
	return out, true, nil
}

// RemoteState reports what EnsureRemote found or did.
type RemoteState struct {
	Added bool
	// URL is the remote's configured URL. When it differs from the wanted
	// URL, Mismatch is set and the remote is left untouched.
	URL      string
	Mismatch bool
}

// EnsureRemote adds remote with url if missing. An existing remote pointing
// elsewhere is reported, not rewritten.
func EnsureRemote(ctx context.Context, path, remote, url string) (RemoteState, error) {
	current, ok, err := RemoteURL(ctx, path, remote)
	if err != nil {
		return RemoteState{}, err
	}
	if ok {
		return RemoteState{URL: current, Mismatch: !SameRemoteURL(current, url)}, nil
	}
	if err := runGit(ctx, path, "remote", "add", remote, url); err != nil {
		return RemoteState{}, fmt.Errorf("failed to add remote %s: %w", remote, err)
	}
	return RemoteState{Added: true, URL: url}, nil
}

// SetRemoteURL rewrites the URL of an existing remote.
func SetRemoteURL(ctx context.Context, path, remote, url string) error {
	if err := runGit(ctx, path, "remote", "set-url", remote, url); err != nil {
		return fmt.Errorf("failed to set url of %s: %w", remote, err)
	}
	return nil
}

// SameRemoteURL compares two remote URLs ignoring scheme, user, ".git" and
// the ssh "host:path" form, so https and ssh URLs of one repo are equal.
func SameRemoteURL(a, b string) bool {
	return normalizeRemoteURL(a) == normalizeRemoteURL(b)
}

func normalizeRemoteURL(u string) string {
	u = strings.TrimSpace(strings.ToLower(u))
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	} else if at := strings.Index(u, "@"); at >= 0 {
		// scp-like: git@host:owner/repo
		u = strings.Replace(u[at+1:], ":", "/", 1)
	}
	if at := strings.Index(u, "@"); at >= 0 && at < strings.Index(u+"/", "/") {
		u = u[at+1:]
	}
	u = strings.TrimSuffix(strings.TrimSuffix(u, "/"), ".git")
	return u
}

// Fetch fetches refs from remote. With no refspecs the remote's defaults apply.
func Fetch(ctx context.Context, path, remote string, refspecs ...string) error {
	args := append([]string{"fetch", "--quiet", remote}, refspecs...)
	if err := runGit(ctx, path, args...); err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

// Push pushes branch to remote. With setUpstream the branch starts tracking it.
func Push(ctx context.Context, path, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	if err := runGit(ctx, path, args...); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", branch, remote, err)
	}
	return nil
}

// PushForceWithLease pushes branch after a history rewrite, refusing if the
// remote moved since the last fetch.
func PushForceWithLease(ctx context.Context, path, remote, branch string) error {
	if err := runGit(ctx, path, "push", "--force-with-lease", remote, branch); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", branch, remote, err)
	}
	return nil
}
