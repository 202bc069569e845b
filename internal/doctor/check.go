package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/githook"
	"github.com/Nubebuster/forkflow/internal/github"
	"github.com/Nubebuster/forkflow/internal/localfiles"
)

type check struct {
	name      string
	needsRepo bool
	run       func(context.Context, Env) Result
}

var checks = []check{
	{name: "git", run: checkGit},
	{name: "gh", run: checkGH},
	{name: "repository", run: checkRepo},
	{name: "upstream remote", needsRepo: true, run: checkUpstream},
	{name: "manifest", needsRepo: true, run: checkManifest},
	{name: "exclude block", needsRepo: true, run: checkExclude},
	{name: "pre-push guard", needsRepo: true, run: checkGuard},
	{name: "local branch", needsRepo: true, run: checkLocalBranch},
}

func ok(detail string) Result {
	return Result{Status: StatusOK, Detail: detail}
}

func checkGit(context.Context, Env) Result {
	if err := git.CheckGit(); err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	return ok("installed")
}

// gh only powers the pr commands, so problems are warnings.
func checkGH(ctx context.Context, _ Env) Result {
	if err := github.CheckGH(ctx); err != nil {
		return Result{Status: StatusWarn, Detail: err.Error()}
	}
	return ok("installed and authenticated")
}

func checkRepo(_ context.Context, env Env) Result {
	if env.Repo == "" {
		return Result{Status: StatusFail, Detail: "not in a git repository"}
	}
	return ok(env.Repo)
}

func checkUpstream(ctx context.Context, env Env) Result {
	up := env.Cfg.Upstream
	url, found, err := git.RemoteURL(ctx, env.Repo, up.Remote)
	if err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	if !found {
		return Result{
			Status: StatusWarn,
			Detail: fmt.Sprintf("remote %q is missing", up.Remote),
			Fix:    "add remote " + up.Remote + " → " + up.URL,
			fix:    fixUpstream,
		}
	}
	if !git.SameRemoteURL(url, up.URL) {
		return Result{
			Status: StatusWarn,
			Detail: fmt.Sprintf("remote %q points to %s", up.Remote, url),
			Fix:    "set URL to " + up.URL,
			fix:    fixUpstream,
		}
	}
	return ok(up.Remote + " → " + url)
}

func fixUpstream(ctx context.Context, env Env) error {
	up := env.Cfg.Upstream
	state, err := git.EnsureRemote(ctx, env.Repo, up.Remote, up.URL)
	if err != nil {
		return err
	}
	if state.Mismatch {
		return git.SetRemoteURL(ctx, env.Repo, up.Remote, up.URL)
	}
	return nil
}

func checkManifest(_ context.Context, env Env) Result {
	m, err := localfiles.LoadManifest(env.Repo, env.Cfg.Local.Manifest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Result{
			Status: StatusWarn,
			Detail: env.Cfg.Local.Manifest + " does not exist",
			Fix:    "write a commented template",
			fix:    fixManifest,
		}
	case err != nil:
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	return ok(fmt.Sprintf("%s, %d pattern(s)", m.Path, len(m.Patterns)))
}

func fixManifest(_ context.Context, env Env) error {
	_, err := localfiles.InitManifest(env.Repo, env.Cfg.Local.Manifest)
	return err
}

func checkExclude(ctx context.Context, env Env) Result {
	m, err := localfiles.LoadManifest(env.Repo, env.Cfg.Local.Manifest)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	inSync, err := git.ExcludeBlockInSync(ctx, env.Repo, m.ExcludePatterns())
	if err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	if !inSync {
		return Result{
			Status: StatusWarn,
			Detail: "info/exclude does not match the manifest",
			Fix:    "rewrite the forkflow block in info/exclude",
			fix:    fixExclude,
		}
	}
	return ok("in sync with the manifest")
}

func fixExclude(ctx context.Context, env Env) error {
	m, err := localfiles.LoadManifest(env.Repo, env.Cfg.Local.Manifest)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	_, err = git.SyncExcludeBlock(ctx, env.Repo, m.ExcludePatterns())
	return err
}

func checkGuard(ctx context.Context, env Env) Result {
	branch := env.Cfg.Local.Branch
	st, err := githook.PrePushInstalled(ctx, env.Repo)
	if err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	fix := "install guard for " + branch
	switch {
	case !st.Installed:
		return Result{Status: StatusFail, Detail: "not installed", Fix: fix, fix: fixGuard}
	case st.Branch != branch:
		return Result{Status: StatusFail, Detail: "guards " + st.Branch + " instead of " + branch, Fix: fix, fix: fixGuard}
	}
	return ok("rejects pushes of " + branch)
}

func fixGuard(ctx context.Context, env Env) error {
	_, err := githook.InstallPrePush(ctx, env.Repo, env.Cfg.Local.Branch)
	return err
}

// checkLocalBranch makes sure the local-only branch has no upstream and was
// never published to origin.
func checkLocalBranch(ctx context.Context, env Env) Result {
	branch := env.Cfg.Local.Branch
	exists, err := git.BranchExists(ctx, env.Repo, branch)
	if err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	if !exists {
		return ok(branch + " not created yet (first backup creates it)")
	}

	if upstream, found, err := git.BranchUpstream(ctx, env.Repo, branch); err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	} else if found {
		return Result{
			Status: StatusFail,
			Detail: branch + " tracks " + upstream,
			Fix:    "remove the upstream of " + branch,
			fix: func(ctx context.Context, env Env) error {
				return git.UnsetBranchUpstream(ctx, env.Repo, env.Cfg.Local.Branch)
			},
		}
	}

	published, err := git.RemoteBranchExists(ctx, env.Repo, "origin", branch)
	if err != nil {
		return Result{Status: StatusFail, Detail: err.Error()}
	}
	if published {
		return Result{
			Status: StatusFail,
			Detail: branch + " exists on origin; delete it with 'git push origin --delete " + branch + "'",
		}
	}
	return ok(branch + " is local only")
}
