package github

import (
	"fmt"
	"net/url"
	"strings"
)

// Repo identifies a repository on a GitHub host.
type Repo struct {
	Host  string
	Owner string
	Name  string
}

// String returns "owner/name", the form gh accepts for -R.
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo parses an "owner/name" spec.
func ParseRepo(spec string) (Repo, error) {
	owner, name, ok := strings.Cut(spec, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repo %q: expected owner/name", spec)
	}
	return Repo{Host: "github.com", Owner: owner, Name: name}, nil
}

// RepoFromURL extracts host, owner and name from a git remote URL.
// Handles https://host/owner/name(.git), git@host:owner/name(.git) and
// ssh://git@host[:port]/owner/name(.git).
func RepoFromURL(remoteURL string) (Repo, error) {
	var host, path string
	switch {
	case strings.HasPrefix(remoteURL, "git@"):
		rest := strings.TrimPrefix(remoteURL, "git@")
		h, p, ok := strings.Cut(rest, ":")
		if !ok {
			return Repo{}, fmt.Errorf("unrecognized remote URL %q", remoteURL)
		}
		host, path = h, p
	case strings.HasPrefix(remoteURL, "https://"),
		strings.HasPrefix(remoteURL, "http://"),
		strings.HasPrefix(remoteURL, "ssh://"):
		u, err := url.Parse(remoteURL)
		if err != nil {
			return Repo{}, fmt.Errorf("unrecognized remote URL %q: %w", remoteURL, err)
		}
		host, path = u.Hostname(), u.Path
	default:
		return Repo{}, fmt.Errorf("unrecognized remote URL %q", remoteURL)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if !ok || host == "" || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("remote URL %q does not name an owner/repo", remoteURL)
	}
	return Repo{Host: host, Owner: owner, Name: name}, nil
}
