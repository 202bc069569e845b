package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
)

// Comment is a single PR conversation or review-thread comment.
type Comment struct {
	Author    string    `json:"author" yaml:"author"`
	Body      string    `json:"body" yaml:"body"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
}

// Review is a submitted review with its summary body.
type Review struct {
	Author      string    `json:"author" yaml:"author"`
	State       string    `json:"state" yaml:"state"`
	Body        string    `json:"body" yaml:"body"`
	SubmittedAt time.Time `json:"submittedAt" yaml:"submitted_at"`
}

// Thread is an inline review thread anchored to a file.
type Thread struct {
	Path     string    `json:"path" yaml:"path"`
	Line     int       `json:"line,omitempty" yaml:"line,omitempty"` // 0 when outdated
	Resolved bool      `json:"resolved" yaml:"resolved"`
	Outdated bool      `json:"outdated" yaml:"outdated"`
	Comments []Comment `json:"comments" yaml:"comments"`
}

// PRComments is everything said on a pull request.
type PRComments struct {
	Repo     string    `json:"repo" yaml:"repo"`
	Number   int       `json:"number" yaml:"number"`
	Title    string    `json:"title" yaml:"title"`
	URL      string    `json:"url" yaml:"url"`
	State    string    `json:"state" yaml:"state"`
	Author   string    `json:"author" yaml:"author"`
	Comments []Comment `json:"comments" yaml:"comments"`
	Reviews  []Review  `json:"reviews" yaml:"reviews"`
	Threads  []Thread  `json:"threads" yaml:"threads"`
}

// authTransport adds the bearer token and a User-Agent to every request.
type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", "forkflow")
	return t.base.RoundTrip(req)
}

// CommentsClient fetches PR comments over the GitHub GraphQL API.
type CommentsClient struct {
	client *graphql.Client
}

// NewCommentsClient creates a client for the given GraphQL endpoint.
func NewCommentsClient(endpoint, token string) *CommentsClient {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			token: token,
			base:  http.DefaultTransport,
		},
	}
	return &CommentsClient{client: graphql.NewClient(endpoint, httpClient)}
}

type actor struct {
	Login string
}

// commentsQuery mirrors the GraphQL selection. Page sizes cover any PR a
// single contributor realistically reviews; longer conversations are cut.
type commentsQuery struct {
	Repository struct {
		PullRequest struct {
			Number   int
			Title    string
			URL      string `graphql:"url"`
			State    string
			IsDraft  bool
			Author   actor
			Comments struct {
				Nodes []struct {
					Author    actor
					Body      string
					CreatedAt time.Time
					URL       string `graphql:"url"`
				}
			} `graphql:"comments(first: 100)"`
			Reviews struct {
				Nodes []struct {
					Author      actor
					State       string
					Body        string
					SubmittedAt time.Time
				}
			} `graphql:"reviews(first: 50)"`
			ReviewThreads struct {
				Nodes []struct {
					Path       string
					Line       *int
					IsResolved bool
					IsOutdated bool
					Comments   struct {
						Nodes []struct {
							Author    actor
							Body      string
							CreatedAt time.Time
							URL       string `graphql:"url"`
						}
					} `graphql:"comments(first: 50)"`
				}
			} `graphql:"reviewThreads(first: 100)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// Fetch returns the conversation, reviews and review threads of a PR.
func (c *CommentsClient) Fetch(ctx context.Context, repo Repo, number int) (*PRComments, error) {
	var q commentsQuery
	vars := map[string]any{
		"owner":  graphql.String(repo.Owner),
		"name":   graphql.String(repo.Name),
		"number": graphql.Int(number),
	}
	if err := c.client.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("fetch comments for %s#%d: %w", repo, number, err)
	}

	pr := q.Repository.PullRequest
	if pr.Number == 0 {
		return nil, fmt.Errorf("pull request %s#%d not found", repo, number)
	}
	res := &PRComments{
		Repo:   repo.String(),
		Number: pr.Number,
		Title:  pr.Title,
		URL:    pr.URL,
		State:  pr.State,
		Author: pr.Author.Login,
	}
	if pr.IsDraft && pr.State == StateOpen {
		res.State = StateDraft
	}
	for _, n := range pr.Comments.Nodes {
		res.Comments = append(res.Comments, Comment{Author: n.Author.Login, Body: n.Body, CreatedAt: n.CreatedAt, URL: n.URL})
	}
	for _, n := range pr.Reviews.Nodes {
		res.Reviews = append(res.Reviews, Review{Author: n.Author.Login, State: n.State, Body: n.Body, SubmittedAt: n.SubmittedAt})
	}
	for _, n := range pr.ReviewThreads.Nodes {
		th := Thread{Path: n.Path, Resolved: n.IsResolved, Outdated: n.IsOutdated}
		if n.Line != nil {
			th.Line = *n.Line
		}
		for _, cm := range n.Comments.Nodes {
			th.Comments = append(th.Comments, Comment{Author: cm.Author.Login, Body: cm.Body, CreatedAt: cm.CreatedAt, URL: cm.URL})
		}
		res.Threads = append(res.Threads, th)
	}
	return res, nil
}
