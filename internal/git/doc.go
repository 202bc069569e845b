// Package git provides git operations via shell commands.
//
// All operations call the git CLI through [internal/cmd] rather than using Go
// git libraries. This keeps behaviour identical to what the user gets at the
// prompt (SSH keys, credential helpers, hooks, aliases) and lets the pre-push
// guard installed by forkflow fire on pushes made by forkflow itself.
//
// # Repository Queries
//
//   - [RepoRoot], [GitCommonDir], [GitPath]: repository layout
//   - [CurrentBranch], [BranchExists], [RemoteBranchExists], [ListBranches]
//   - [IsDirty], [AheadBehind], [LastCommit]
//
// # Mutations
//
//   - [Checkout], [CheckoutTracking], [CreateBranch], [CreateEmptyBranch]
//   - [Fetch], [Merge], [Rebase], [Push]
//   - [Stash], [StashPop], [AddForce], [Commit]
//
// # Local Files
//
// Local-only files are hidden from git through a marked block in
// .git/info/exclude ([SyncExcludeBlock]) and discovered with
// [ListMatchingUntracked]. Their backups live on a branch that shares no
// history with the project, read back with [ListTree] and [ShowFile].
package git
