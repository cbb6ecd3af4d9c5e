package gitgateway

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitwarp/warp/internal/gitexec"
	"github.com/gitwarp/warp/internal/warperrors"
)

// WorktreeRecord describes one entry of `git worktree list`.
type WorktreeRecord struct {
	Path       string
	Branch     string // empty when detached
	HeadCommit string
	IsPrimary  bool
	IsDetached bool
	IsLocked   bool
	IsPrunable bool
}

// ListWorktrees parses `git worktree list --porcelain`.
func (g *Gateway) ListWorktrees() ([]WorktreeRecord, error) {
	out, err := gitexec.Run(g.Repo.PrimaryPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	var records []WorktreeRecord
	var cur *WorktreeRecord

	flush := func() {
		if cur != nil {
			records = append(records, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			path, err := canonicalize(strings.TrimPrefix(line, "worktree "))
			if err != nil {
				path = strings.TrimPrefix(line, "worktree ")
			}
			cur = &WorktreeRecord{Path: path}
		case line == "detached":
			if cur != nil {
				cur.IsDetached = true
			}
		case line == "bare":
			// The bare common repository entry; not a usable worktree record.
		case strings.HasPrefix(line, "branch "):
			if cur != nil {
				cur.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
			}
		case strings.HasPrefix(line, "HEAD "):
			if cur != nil {
				cur.HeadCommit = strings.TrimPrefix(line, "HEAD ")
			}
		case strings.HasPrefix(line, "locked"):
			if cur != nil {
				cur.IsLocked = true
			}
		case strings.HasPrefix(line, "prunable"):
			if cur != nil {
				cur.IsPrunable = true
			}
		}
	}
	flush()

	for i := range records {
		records[i].IsPrimary = records[i].Path == g.Repo.PrimaryPath
	}

	return records, nil
}

// branchCheckedOutAt returns the worktree path where branch is currently
// checked out, or "" if it is not checked out anywhere.
func (g *Gateway) branchCheckedOutAt(branch string) (string, error) {
	records, err := g.ListWorktrees()
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if r.Branch == branch {
			return r.Path, nil
		}
	}
	return "", nil
}

// CreateWorktree creates branch (from baseRef, or current HEAD if baseRef
// is empty) if it does not already exist, then registers path as a
// worktree holding it. This is the non-CoW worktree creation path.
func (g *Gateway) CreateWorktree(path, branch, baseRef string) error {
	if where, err := g.branchCheckedOutAt(branch); err != nil {
		return err
	} else if where != "" {
		return &warperrors.BranchAlreadyCheckedOut{Branch: branch, Where: where}
	}

	if isUnderneath(g.Repo.PrimaryPath, path) {
		return fmt.Errorf("worktree path %s is inside the primary worktree", path)
	}
	if pathExistsNonEmpty(path) {
		return &warperrors.TargetNotEmpty{Path: path}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", path, err)
	}

	var args []string
	if _, err := gitexec.Run(g.Repo.PrimaryPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch); err == nil {
		args = []string{"worktree", "add", path, branch}
	} else {
		args = []string{"worktree", "add", "-b", branch, path}
		if baseRef != "" {
			args = append(args, baseRef)
		}
	}
	if _, err := gitexec.Run(g.Repo.PrimaryPath, args...); err != nil {
		return err
	}
	return nil
}

// RegisterExisting tells git that path (already populated by a CoW clone)
// is a worktree for branch, creating the branch from the primary's HEAD if
// it does not exist yet, without recopying any files. This is the only
// way to attach an already-populated directory as a worktree: git itself
// offers no "register this existing directory" subcommand, so the
// administrative files it would have written are written by hand.
func (g *Gateway) RegisterExisting(path, branch string) error {
	if where, err := g.branchCheckedOutAt(branch); err != nil {
		return err
	} else if where != "" && where != path {
		return &warperrors.BranchAlreadyCheckedOut{Branch: branch, Where: where}
	}

	headCommit, err := gitexec.Run(g.Repo.PrimaryPath, "rev-parse", "HEAD")
	if err != nil {
		return err
	}

	if _, err := gitexec.Run(g.Repo.PrimaryPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch); err != nil {
		if _, createErr := gitexec.Run(g.Repo.PrimaryPath, "branch", branch, headCommit); createErr != nil {
			return fmt.Errorf("create branch %s: %w", branch, createErr)
		}
	}

	if _, err := gitexec.Run(path, "symbolic-ref", "HEAD", "refs/heads/"+branch); err != nil {
		return fmt.Errorf("point HEAD at branch %s: %w", branch, err)
	}

	worktreeName := sanitizeWorktreeName(branch)
	metaDir := filepath.Join(g.Repo.CommonDir, "worktrees", worktreeName)
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("create worktree metadata directory: %w", err)
	}

	headFile := filepath.Join(metaDir, "HEAD")
	if err := os.WriteFile(headFile, []byte("ref: refs/heads/"+branch+"\n"), 0o644); err != nil {
		return fmt.Errorf("write worktree HEAD file: %w", err)
	}

	relCommon, err := filepath.Rel(metaDir, g.Repo.CommonDir)
	if err != nil {
		relCommon = g.Repo.CommonDir
	}
	commondirFile := filepath.Join(metaDir, "commondir")
	if err := os.WriteFile(commondirFile, []byte(relCommon+"\n"), 0o644); err != nil {
		return fmt.Errorf("write commondir file: %w", err)
	}

	worktreeGitFile := filepath.Join(path, ".git")
	gitdirFile := filepath.Join(metaDir, "gitdir")
	if err := os.WriteFile(gitdirFile, []byte(worktreeGitFile+"\n"), 0o644); err != nil {
		return fmt.Errorf("write gitdir file: %w", err)
	}

	if err := os.RemoveAll(worktreeGitFile); err != nil {
		return fmt.Errorf("remove cloned .git directory: %w", err)
	}
	if err := os.WriteFile(worktreeGitFile, []byte("gitdir: "+metaDir+"\n"), 0o644); err != nil {
		return fmt.Errorf("write worktree .git file: %w", err)
	}

	return nil
}

func sanitizeWorktreeName(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// RemoveStaleWorktree best-effort deregisters any worktree already
// registered at path, ignoring the error if nothing is registered there.
// Call before placing a fresh CoW clone at path, in case a prior failed
// attempt left a registration behind.
func (g *Gateway) RemoveStaleWorktree(path string) {
	gitexec.RunAllowFail(g.Repo.PrimaryPath, "worktree", "remove", "-f", path)
}

// RemoveWorktree de-registers and deletes the worktree directory.
func (g *Gateway) RemoveWorktree(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if _, err := gitexec.Run(g.Repo.PrimaryPath, args...); err != nil {
		if !force && strings.Contains(err.Error(), "contains modified or untracked files") {
			return &warperrors.WorktreeDirty{Path: path}
		}
		return err
	}
	return nil
}

// IsDirty reports whether the worktree at path has uncommitted changes
// (staged, unstaged, or untracked). Used by the Cleanup Planner to decide
// whether removal requires force.
func (g *Gateway) IsDirty(path string) (bool, error) {
	out, err := gitexec.Run(path, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Prune drops stale worktree records whose directories no longer exist.
func (g *Gateway) Prune() error {
	_, err := gitexec.Run(g.Repo.PrimaryPath, "worktree", "prune")
	return err
}

// DeleteBranch deletes the local branch ref.
func (g *Gateway) DeleteBranch(branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := gitexec.Run(g.Repo.PrimaryPath, "branch", flag, branch)
	return err
}
