package github

import "testing"

func TestRepoFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    Repo
		wantErr bool
	}{
		{"https", "https://github.com/google-gemini/gemini-cli.git", Repo{"github.com", "google-gemini", "gemini-cli"}, false},
		{"https without suffix", "https://github.com/octo/hello", Repo{"github.com", "octo", "hello"}, false},
		{"https trailing slash", "https://github.com/octo/hello/", Repo{"github.com", "octo", "hello"}, false},
		{"scp style", "git@github.com:octo/hello.git", Repo{"github.com", "octo", "hello"}, false},
		{"ssh protocol with port", "ssh://git@ghe.corp:2222/team/tool.git", Repo{"ghe.corp", "team", "tool"}, false},
		{"enterprise https", "https://ghe.corp/team/tool.git", Repo{"ghe.corp", "team", "tool"}, false},
		{"local path", "/tmp/repo.git", Repo{}, true},
		{"missing name", "https://github.com/octo", Repo{}, true},
		{"too deep", "https://github.com/a/b/c", Repo{}, true},
		{"scp without colon", "git@github.com", Repo{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := RepoFromURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RepoFromURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RepoFromURL(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseRepo(t *testing.T) {
	t.Parallel()

	r, err := ParseRepo("octo/hello")
	if err != nil {
		t.Fatalf("ParseRepo: %v", err)
	}
	if r.String() != "octo/hello" {
		t.Errorf("String() = %q", r.String())
	}

	for _, bad := range []string{"", "octo", "/hello", "octo/", "a/b/c"} {
		if _, err := ParseRepo(bad); err == nil {
			t.Errorf("ParseRepo(%q) should fail", bad)
		}
	}
}
