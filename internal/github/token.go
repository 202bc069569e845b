package github

import (
	"context"
	"errors"
	"strings"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// Token returns a GitHub API token from GH_TOKEN, GITHUB_TOKEN or, failing
// both, "gh auth token".
func Token(ctx context.Context, getenv func(string) string) (string, error) {
	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v, nil
		}
	}
	out, err := cmd.OutputContext(ctx, "", "gh", "auth", "token")
	if err != nil {
		return "", errors.Join(ErrGHNotAuthenticated, err)
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", ErrGHNotAuthenticated
	}
	return token, nil
}
