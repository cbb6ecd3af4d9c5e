package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitwarp/warp/internal/cowclone"
	"github.com/gitwarp/warp/internal/pathrewrite"
	"github.com/gitwarp/warp/internal/warperrors"
)

// Method is the route Materialize took to produce a worktree.
type Method int

const (
	CoW Method = iota
	Fallback
)

func (m Method) String() string {
	if m == CoW {
		return "cow"
	}
	return "fallback"
}

// MaterializeOptions controls Materialize's routing and target resolution.
type MaterializeOptions struct {
	Path     string // explicit target path; empty means use the configured pattern
	NoCoW    bool
	DryRun   bool
	BaseRef  string // used only on the Fallback path
}

// MaterializeResult is Materialize's return value.
type MaterializeResult struct {
	TargetPath string
	Method     Method
	WasSwitch  bool
	DryRunPlan string
}

// Materialize creates or switches to a worktree for branch. It is
// idempotent: a pre-existing worktree for branch is returned as a switch
// with no filesystem mutation.
func (o *Orchestrator) Materialize(branch string, opts MaterializeOptions) (*MaterializeResult, error) {
	records, err := o.Gateway.ListWorktrees()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	for _, rec := range records {
		if rec.Branch == branch {
			return &MaterializeResult{TargetPath: rec.Path, Method: Fallback, WasSwitch: true}, nil
		}
	}

	targetPath := opts.Path
	if targetPath == "" {
		targetPath = o.defaultTargetPath(branch)
	}

	useCoW := !opts.NoCoW && o.Config.UseCoW
	method := Fallback
	if useCoW {
		if supported, err := o.Prober.Supported(o.Gateway.Repo.PrimaryPath); err == nil && supported {
			method = CoW
		}
	}

	if opts.DryRun {
		return &MaterializeResult{
			TargetPath: targetPath,
			Method:     method,
			DryRunPlan: fmt.Sprintf("would materialize branch %q at %s via %s", branch, targetPath, method),
		}, nil
	}

	switch method {
	case CoW:
		if err := o.materializeCoW(branch, targetPath); err != nil {
			return nil, err
		}
	case Fallback:
		if err := o.Gateway.CreateWorktree(targetPath, branch, opts.BaseRef); err != nil {
			return nil, err
		}
	}

	return &MaterializeResult{TargetPath: targetPath, Method: method}, nil
}

func (o *Orchestrator) defaultTargetPath(branch string) string {
	base := o.Config.WorktreesPath
	if base == "" {
		base = filepath.Join(filepath.Dir(o.Gateway.Repo.PrimaryPath), "worktrees")
	}
	return filepath.Join(base, sanitizeBranchSegment(branch))
}

// materializeCoW runs the CoW path: clone, rewrite, then register. Any
// failure after the directory is created triggers rollback of the
// directory and, if freshly created, the branch.
func (o *Orchestrator) materializeCoW(branch, targetPath string) (err error) {
	primary := o.Gateway.Repo.PrimaryPath
	branchExistedBefore := o.branchExists(branch)

	// Best-effort: drop any stale worktree registration left at targetPath
	// by a prior failed attempt before cloning over it.
	o.Gateway.RemoveStaleWorktree(targetPath)

	o.Progress.StartStage("clone")
	if cloneErr := cowclone.Clone(primary, targetPath); cloneErr != nil {
		o.Progress.Error(cloneErr)
		return cloneErr
	}
	o.Progress.FinishStage()

	defer func() {
		if err != nil {
			o.rollbackMaterialize(targetPath, branch, branchExistedBefore)
		}
	}()

	o.Progress.StartStage("rewrite")
	stats, rewriteErr := pathrewrite.Rewrite(targetPath, primary, targetPath)
	if rewriteErr != nil {
		o.Progress.Error(rewriteErr)
		return fmt.Errorf("rewrite paths in %s: %w", targetPath, rewriteErr)
	}
	if len(stats.Errors) > 0 {
		partial := &warperrors.PartialRewriteError{
			FilesScanned:   stats.FilesScanned,
			FilesRewritten: stats.FilesRewritten,
			FileErrors:     stats.Errors,
		}
		o.Logger.Warn(partial.Error(), "target", targetPath)
	}
	o.Progress.FinishStageWithInfo(fmt.Sprintf("%d/%d files rewritten", stats.FilesRewritten, stats.FilesScanned))

	o.Progress.StartStage("register")
	if registerErr := o.Gateway.RegisterExisting(targetPath, branch); registerErr != nil {
		o.Progress.Error(registerErr)
		return registerErr
	}
	o.Progress.FinishStage()

	return nil
}

func (o *Orchestrator) branchExists(branch string) bool {
	classes, err := o.Gateway.ClassifyBranches(o.Config.Git.DefaultBranch, false)
	if err != nil {
		return true // assume existing; safer to skip a branch delete on uncertainty
	}
	_, ok := classes[branch]
	return ok
}

// rollbackMaterialize removes a partially-materialized target directory
// and, if the branch did not exist before this call, the branch itself.
// Rollback errors are logged but never replace the original error.
func (o *Orchestrator) rollbackMaterialize(targetPath, branch string, branchExistedBefore bool) {
	if rmErr := os.RemoveAll(targetPath); rmErr != nil {
		o.Logger.Error("rollback: failed to remove partial worktree directory", "path", targetPath, "error", rmErr)
	}
	if !branchExistedBefore {
		if delErr := o.Gateway.DeleteBranch(branch, true); delErr != nil {
			o.Logger.Error("rollback: failed to delete freshly-created branch", "branch", branch, "error", delErr)
		}
	}
}
