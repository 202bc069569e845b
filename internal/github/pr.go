package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Nubebuster/forkflow/internal/cmd"
)

// PR states as reported by gh.
const (
	StateOpen   = "OPEN"
	StateMerged = "MERGED"
	StateClosed = "CLOSED"
	StateDraft  = "DRAFT"
)

// PR is one entry of "gh pr list".
type PR struct {
	Number  int    `json:"number" yaml:"number"`
	Title   string `json:"title" yaml:"title"`
	State   string `json:"state" yaml:"state"`
	IsDraft bool   `json:"isDraft" yaml:"draft"`
	URL     string `json:"url" yaml:"url"`
	Branch  string `json:"headRefName" yaml:"branch"`
	Author  string `json:"author" yaml:"author"`
}

const prListFields = "number,title,state,isDraft,url,headRefName,author"

// ListOptions filters ListPRs.
type ListOptions struct {
	Author string // e.g. "@me"
	State  string // open, closed, merged, all; empty = open
	Limit  int
}

// ListPRs lists pull requests of repo.
func ListPRs(ctx context.Context, dir string, repo Repo, opts ListOptions) ([]PR, error) {
	args := []string{"pr", "list", "-R", repo.String(), "--json", prListFields}
	if opts.Author != "" {
		args = append(args, "--author", opts.Author)
	}
	if opts.State != "" {
		args = append(args, "--state", opts.State)
	}
	if opts.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(opts.Limit))
	}

	out, err := cmd.OutputContext(ctx, dir, "gh", args...)
	if err != nil {
		return nil, fmt.Errorf("gh pr list failed: %w", err)
	}
	return parsePRList(out)
}

func parsePRList(data []byte) ([]PR, error) {
	var raw []struct {
		PR
		AuthorInfo struct {
			Login string `json:"login"`
		} `json:"author"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	prs := make([]PR, len(raw))
	for i, r := range raw {
		prs[i] = r.PR
		prs[i].Author = r.AuthorInfo.Login
	}
	return prs, nil
}

// DisplayState folds the draft flag into the state.
func (p PR) DisplayState() string {
	if p.IsDraft && p.State == StateOpen {
		return StateDraft
	}
	return p.State
}

// FormatState returns a human-readable PR state
func FormatState(state string) string {
	switch state {
	case StateMerged, StateOpen, StateDraft, StateClosed:
		return strings.ToLower(state)
	default:
		return ""
	}
}

// ViewPR shows a pull request in the terminal, or in the browser when web
// is set.
func ViewPR(ctx context.Context, dir string, repo Repo, number int, web bool) error {
	args := []string{"pr", "view", strconv.Itoa(number), "-R", repo.String()}
	if web {
		return cmd.RunContext(ctx, dir, "gh", append(args, "--web")...)
	}
	return cmd.RunInteractive(ctx, dir, "gh", args...)
}

// CheckoutPR checks out the head branch of a pull request.
func CheckoutPR(ctx context.Context, dir string, repo Repo, number int) error {
	if err := cmd.RunContext(ctx, dir, "gh", "pr", "checkout", strconv.Itoa(number), "-R", repo.String()); err != nil {
		return fmt.Errorf("gh pr checkout failed: %w", err)
	}
	return nil
}

// CreateParams contains parameters for creating a PR.
type CreateParams struct {
	Title string // empty with empty Body = --fill from commits
	Body  string
	Base  string // base branch on repo
	Head  string // "forkOwner:branch"
	Draft bool
}

// CreateResult contains the result of creating a PR
type CreateResult struct {
	Number int    `json:"number" yaml:"number"`
	URL    string `json:"url" yaml:"url"`
}

func createArgs(repo Repo, p CreateParams) []string {
	args := []string{"pr", "create", "-R", repo.String()}
	if p.Title == "" && p.Body == "" {
		args = append(args, "--fill")
	} else {
		args = append(args, "--title", p.Title, "--body", p.Body)
	}
	if p.Base != "" {
		args = append(args, "--base", p.Base)
	}
	if p.Head != "" {
		args = append(args, "--head", p.Head)
	}
	if p.Draft {
		args = append(args, "--draft")
	}
	return args
}

// CreatePR opens a pull request against repo. The head branch must already
// be pushed.
func CreatePR(ctx context.Context, dir string, repo Repo, p CreateParams) (CreateResult, error) {
	out, err := cmd.OutputContext(ctx, dir, "gh", createArgs(repo, p)...)
	if err != nil {
		return CreateResult{}, fmt.Errorf("gh pr create failed: %w", err)
	}

	// gh prints the PR URL as its last line of output.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	prURL := strings.TrimSpace(lines[len(lines)-1])
	if prURL == "" {
		return CreateResult{}, fmt.Errorf("gh pr create returned empty output")
	}
	return CreateResult{Number: numberFromURL(prURL), URL: prURL}, nil
}

// numberFromURL extracts 123 from https://github.com/org/repo/pull/123.
func numberFromURL(prURL string) int {
	i := strings.LastIndex(prURL, "/")
	n, err := strconv.Atoi(prURL[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// ParseNumber accepts "123" or "#123".
func ParseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid PR number %q", s)
	}
	return n, nil
}
