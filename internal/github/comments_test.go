package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const commentsResponse = `{
  "data": {
    "repository": {
      "pullRequest": {
        "number": 42,
        "title": "feat: faster sync",
        "url": "https://github.com/up/proj/pull/42",
        "state": "OPEN",
        "isDraft": false,
        "author": {"login": "me"},
        "comments": {"nodes": [
          {"author": {"login": "rev"}, "body": "Thanks!", "createdAt": "2025-03-01T10:00:00Z", "url": "https://github.com/up/proj/pull/42#c1"}
        ]},
        "reviews": {"nodes": [
          {"author": {"login": "rev"}, "state": "CHANGES_REQUESTED", "body": "Please rename.", "submittedAt": "2025-03-02T09:00:00Z"},
          {"author": {"login": "bot"}, "state": "COMMENTED", "body": "", "submittedAt": "2025-03-02T09:30:00Z"}
        ]},
        "reviewThreads": {"nodes": [
          {"path": "src/sync.ts", "line": 12, "isResolved": false, "isOutdated": false,
           "comments": {"nodes": [{"author": {"login": "rev"}, "body": "rename this", "createdAt": "2025-03-02T09:01:00Z", "url": ""}]}},
          {"path": "README.md", "line": null, "isResolved": true, "isOutdated": true,
           "comments": {"nodes": [{"author": {"login": "rev"}, "body": "typo", "createdAt": "2025-03-02T09:02:00Z", "url": ""}]}}
        ]}
      }
    }
  }
}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Query, "reviewThreads(first: 100)") {
			t.Errorf("query missing review threads: %s", req.Query)
		}
		if req.Variables["owner"] != "up" || req.Variables["name"] != "proj" {
			t.Errorf("variables = %v", req.Variables)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCommentsClient_Fetch(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, commentsResponse)
	c := NewCommentsClient(srv.URL, "test-token")

	pr, err := c.Fetch(context.Background(), Repo{Owner: "up", Name: "proj"}, 42)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if pr.Number != 42 || pr.Title != "feat: faster sync" || pr.Author != "me" || pr.Repo != "up/proj" {
		t.Errorf("header = %+v", pr)
	}
	if len(pr.Comments) != 1 || pr.Comments[0].Author != "rev" {
		t.Errorf("comments = %+v", pr.Comments)
	}
	if len(pr.Reviews) != 2 {
		t.Errorf("reviews = %+v", pr.Reviews)
	}
	if len(pr.Threads) != 2 {
		t.Fatalf("threads = %+v", pr.Threads)
	}
	if pr.Threads[0].Line != 12 || pr.Threads[0].Resolved {
		t.Errorf("thread[0] = %+v", pr.Threads[0])
	}
	if pr.Threads[1].Line != 0 || !pr.Threads[1].Resolved || !pr.Threads[1].Outdated {
		t.Errorf("thread[1] = %+v", pr.Threads[1])
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if !pr.Comments[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", pr.Comments[0].CreatedAt, want)
	}
}

func TestCommentsClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"graphql error", http.StatusOK, `{"errors":[{"message":"Could not resolve to a PullRequest with the number of 9."}]}`},
		{"bad credentials", http.StatusUnauthorized, `{"message":"Bad credentials"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, tt.status, tt.body)
			c := NewCommentsClient(srv.URL, "test-token")
			_, err := c.Fetch(context.Background(), Repo{Owner: "up", Name: "proj"}, 9)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "up/proj#9") {
				t.Errorf("error %q should name the PR", err)
			}
		})
	}
}

func TestFormatComments(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	pr := &PRComments{
		Repo: "up/proj", Number: 42, Title: "feat: x", URL: "https://x", State: StateOpen, Author: "me",
		Comments: []Comment{{Author: "rev", Body: "Thanks!", CreatedAt: at}},
		Reviews: []Review{
			{Author: "rev", State: "APPROVED", Body: "LGTM", SubmittedAt: at},
			{Author: "bot", State: "COMMENTED", Body: "  ", SubmittedAt: at},
		},
		Threads: []Thread{
			{Path: "a.go", Line: 3, Comments: []Comment{{Author: "rev", Body: "open thread", CreatedAt: at}}},
			{Path: "b.go", Resolved: true, Comments: []Comment{{Author: "rev", Body: "done thread", CreatedAt: at}}},
		},
	}

	all := FormatComments(pr, FormatOptions{})
	for _, want := range []string{"# up/proj#42: feat: x", "**@rev** approved", "LGTM", "Thanks!", "`a.go:3`", "`b.go` (resolved)", "done thread"} {
		if !strings.Contains(all, want) {
			t.Errorf("output missing %q:\n%s", want, all)
		}
	}
	if strings.Contains(all, "@bot") {
		t.Errorf("empty review should be omitted:\n%s", all)
	}

	open := FormatComments(pr, FormatOptions{Unresolved: true})
	if strings.Contains(open, "done thread") {
		t.Errorf("resolved thread should be dropped:\n%s", open)
	}
	if !strings.Contains(open, "open thread") {
		t.Errorf("unresolved thread missing:\n%s", open)
	}

	empty := FormatComments(&PRComments{Repo: "up/proj", Number: 1}, FormatOptions{})
	if !strings.Contains(empty, "No comments.") {
		t.Errorf("empty PR output:\n%s", empty)
	}
}
