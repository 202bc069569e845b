package githook

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nubebuster/forkflow/internal/gittest"
)

func TestWithGuard(t *testing.T) {
	t.Parallel()

	t.Run("new hook gets shebang", func(t *testing.T) {
		t.Parallel()
		got, changed := withGuard("", "local-files")
		if !changed || !strings.HasPrefix(got, shebang+"\n") {
			t.Errorf("changed=%v content=%q", changed, got)
		}
	})

	t.Run("existing hook is appended to", func(t *testing.T) {
		t.Parallel()
		existing := "#!/bin/bash\nnpm test"
		got, changed := withGuard(existing, "local-files")
		if !changed || !strings.HasPrefix(got, existing+"\n"+blockBegin) {
			t.Errorf("changed=%v content=%q", changed, got)
		}
	})

	t.Run("same branch is idempotent", func(t *testing.T) {
		t.Parallel()
		once, _ := withGuard("", "local-files")
		twice, changed := withGuard(once, "local-files")
		if changed || twice != once {
			t.Errorf("second install changed the hook:\n%s", twice)
		}
	})

	t.Run("other branch is replaced", func(t *testing.T) {
		t.Parallel()
		once, _ := withGuard("#!/bin/sh\necho before\n", "old")
		once += "echo after\n"
		got, changed := withGuard(once, "new")
		if !changed {
			t.Fatal("expected change")
		}
		if strings.Count(got, blockBegin) != 1 {
			t.Errorf("expected exactly one guard:\n%s", got)
		}
		if strings.Contains(got, "refs/heads/old") || !strings.Contains(got, "refs/heads/new") {
			t.Errorf("guard not retargeted:\n%s", got)
		}
		if !strings.Contains(got, "echo before") || !strings.HasSuffix(got, "echo after\n") {
			t.Errorf("surrounding lines lost:\n%s", got)
		}
	})
}

func TestInstallPrePush(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()

	st, err := PrePushInstalled(ctx, repo)
	if err != nil || st.Installed {
		t.Fatalf("fresh repo status=%+v err=%v", st, err)
	}

	changed, err := InstallPrePush(ctx, repo, "local-files")
	if err != nil || !changed {
		t.Fatalf("InstallPrePush changed=%v err=%v", changed, err)
	}
	changed, err = InstallPrePush(ctx, repo, "local-files")
	if err != nil || changed {
		t.Errorf("second install changed=%v err=%v", changed, err)
	}

	st, err = PrePushInstalled(ctx, repo)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Installed || st.Branch != "local-files" {
		t.Errorf("status = %+v", st)
	}
	info, err := os.Stat(st.Path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("hook not executable: %v", info.Mode())
	}
}

func TestGuardBlocksPush(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	f := gittest.NewFork(t)
	ctx := context.Background()
	if _, err := InstallPrePush(ctx, f.Repo, "local-files"); err != nil {
		t.Fatal(err)
	}
	gittest.Run(t, f.Repo, "branch", "local-files")
	gittest.Run(t, f.Repo, "branch", "feat/ok")

	blocked := exec.Command("git", "push", "origin", "local-files")
	blocked.Dir = f.Repo
	out, err := blocked.CombinedOutput()
	if err == nil {
		t.Fatalf("push of local-only branch succeeded:\n%s", out)
	}
	if !strings.Contains(string(out), "refusing to push local-only branch") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// pushing it under another name is rejected too
	renamed := exec.Command("git", "push", "origin", "feat/ok:local-files")
	renamed.Dir = f.Repo
	if out, err := renamed.CombinedOutput(); err == nil {
		t.Errorf("push to remote local-only ref succeeded:\n%s", out)
	}

	gittest.Run(t, f.Repo, "push", "origin", "feat/ok")
	if _, err := os.Stat(filepath.Join(f.Origin, "refs", "heads", "local-files")); err == nil {
		t.Error("local-only branch reached origin")
	}
}

func TestGuardBlockQuotesBranch(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	tests := []struct {
		name   string
		branch string
	}{
		{"command substitution", "x$(touch pwned)"},
		{"backticks", "x`touch pwned`"},
		{"double quote", `x";touch pwned;"`},
		{"single quote", "x';touch pwned;'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()

			ref := "refs/heads/" + tt.branch
			cmd := exec.Command("sh", "-c", guardBlock(tt.branch))
			cmd.Dir = dir
			cmd.Stdin = strings.NewReader(ref + " abc refs/heads/other def\n")
			out, err := cmd.CombinedOutput()
			if err == nil {
				t.Errorf("guard let %q through:\n%s", tt.branch, out)
			}
			if !strings.Contains(string(out), tt.branch) {
				t.Errorf("message does not name the branch literally:\n%s", out)
			}
			if _, err := os.Stat(filepath.Join(dir, "pwned")); err == nil {
				t.Error("branch name was executed by the hook")
			}
		})
	}
}

func TestInstallPrePush_RejectsMultilineBranch(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	if _, err := InstallPrePush(context.Background(), repo, "x\necho hi"); err == nil {
		t.Fatal("expected error for branch with a newline")
	}
	st, err := PrePushInstalled(context.Background(), repo)
	if err != nil || st.Installed {
		t.Errorf("hook written anyway: status=%+v err=%v", st, err)
	}
}
