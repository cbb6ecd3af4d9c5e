// Package warperrors defines the error taxonomy git-warp's lifecycle
// components return: environmental failures, worktree/branch conflicts,
// delegated-git failures, process-safety failures, partial-success
// warnings, and internal invariant violations. Lower layers return these;
// only the Orchestrator and CLI convert them into user-visible failures.
package warperrors

import "fmt"

// NotARepository is an Environmental error: the current directory is not
// inside a git repository's working tree.
type NotARepository struct {
	Path string
}

func (e *NotARepository) Error() string {
	return fmt.Sprintf("not a git repository: %s", e.Path)
}

// CoWUnsupported is an Environmental error: the filesystem under src does
// not support copy-on-write cloning.
type CoWUnsupported struct {
	Path   string
	Reason string
}

func (e *CoWUnsupported) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("copy-on-write not supported at %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("copy-on-write not supported at %s", e.Path)
}

// BranchAlreadyCheckedOut is a Conflict error: the requested branch is
// already the checked-out branch of another worktree.
type BranchAlreadyCheckedOut struct {
	Branch string
	Where  string
}

func (e *BranchAlreadyCheckedOut) Error() string {
	return fmt.Sprintf("branch %q is already checked out at %s", e.Branch, e.Where)
}

// WorktreeDirty is a Conflict error: the worktree has uncommitted changes
// and the caller did not authorize force removal.
type WorktreeDirty struct {
	Path string
}

func (e *WorktreeDirty) Error() string {
	return fmt.Sprintf("worktree is dirty: %s", e.Path)
}

// TargetNotEmpty is a Conflict error: the materialization target directory
// already exists and is non-empty. It is returned for any non-empty target;
// a directory left by an earlier CoW clone of the primary is not exempted.
type TargetNotEmpty struct {
	Path string
}

func (e *TargetNotEmpty) Error() string {
	return fmt.Sprintf("target path is non-empty: %s", e.Path)
}

// GitDelegationFailed is a Delegation error: a delegated `git` subprocess
// exited non-zero. Stderr is captured verbatim.
type GitDelegationFailed struct {
	Args   []string
	Stderr string
}

func (e *GitDelegationFailed) Error() string {
	return fmt.Sprintf("git %v failed: %s", e.Args, e.Stderr)
}

// ProcessesRunning is a Process-safety error: processes rooted inside a
// removal candidate were still alive after an authorized termination
// attempt (SIGTERM, then SIGKILL), so the candidate was not removed.
type ProcessesRunning struct {
	Path string
	PIDs []int
}

func (e *ProcessesRunning) Error() string {
	return fmt.Sprintf("live processes rooted at %s: %v", e.Path, e.PIDs)
}

// PartialRewriteError is a Partial error: the CoW clone succeeded but the
// path rewrite pass produced per-file errors. It never aborts the
// containing operation; the caller reports it as a warning.
type PartialRewriteError struct {
	FilesScanned   int
	FilesRewritten int
	FileErrors     []error
}

func (e *PartialRewriteError) Error() string {
	return fmt.Sprintf("rewrite completed with %d error(s) out of %d file(s) scanned", len(e.FileErrors), e.FilesScanned)
}

// InvariantViolation is an Internal error: a structural invariant the
// Orchestrator relies on was violated (e.g. the primary worktree reached
// the Cleanup Plan). Always reported as a bug, never user-actionable.
type InvariantViolation struct {
	What string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.What)
}
