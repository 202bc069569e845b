// Package doctor checks that a fork checkout is wired the way forkflow
// expects and repairs what it can.
//
// Checks cover the tools (git, gh), the upstream remote, the ignore
// manifest and its info/exclude block, the pre-push guard, and the
// local-only branch staying unpublished. "forkflow setup" is the same
// repair pass applied unconditionally.
package doctor
