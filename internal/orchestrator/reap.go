package orchestrator

import (
	"fmt"

	"github.com/gitwarp/warp/internal/cleanplan"
	"github.com/gitwarp/warp/internal/gitgateway"
	"github.com/gitwarp/warp/internal/warperrors"
)

// ReapItemOutcome is the per-item result of executing a Cleanup Plan.
type ReapItemOutcome struct {
	Item  cleanplan.Item
	Ran   bool
	Error error
}

// ReapReport is Reap's return value: the plan it executed (or would have,
// under dry-run) plus the per-item outcomes.
type ReapReport struct {
	Plan     *cleanplan.Plan
	Outcomes []ReapItemOutcome
	DryRun   bool
}

// Reap executes the Cleanup Plan for policy. A failure on one item never
// aborts the remaining items.
func (o *Orchestrator) Reap(policy cleanplan.Policy, selection []string, flags cleanplan.Flags, dryRun bool) (*ReapReport, error) {
	plan, err := cleanplan.Build(o.Gateway, o.Scanner, o.Config.Git.DefaultBranch, o.Config.Git.AutoFetch, policy, selection, flags)
	if err != nil {
		return nil, fmt.Errorf("build cleanup plan: %w", err)
	}

	if dryRun {
		return &ReapReport{Plan: plan, DryRun: true}, nil
	}

	killFailures := o.promoteKilledItems(plan, flags)

	outcomes := make([]ReapItemOutcome, 0, len(plan.Items))
	for _, item := range plan.Items {
		if err, failed := killFailures[item.WorktreePath]; failed {
			outcomes = append(outcomes, ReapItemOutcome{Item: item, Ran: false, Error: err})
			continue
		}
		outcomes = append(outcomes, o.executeReapItem(item, flags))
	}

	if err := o.Gateway.Prune(); err != nil {
		o.Logger.Warn("worktree prune failed after reap", "error", err)
	}

	return &ReapReport{Plan: plan, Outcomes: outcomes}, nil
}

// promoteKilledItems terminates the processes rooted in every candidate
// that has any, when flags.Kill authorizes it, and only then promotes that
// item to ForceRemove/ReasonKilled. An item whose processes survive
// SIGTERM-then-SIGKILL is never promoted: its path is returned in the
// result map with a *warperrors.ProcessesRunning explaining why removal
// did not proceed, so the caller never force-removes a worktree out from
// under a still-live process.
func (o *Orchestrator) promoteKilledItems(plan *cleanplan.Plan, flags cleanplan.Flags) map[string]error {
	failures := make(map[string]error)
	if !flags.Kill {
		return failures
	}
	for i := range plan.Items {
		item := &plan.Items[i]
		if len(item.RunningProcesses) == 0 {
			continue
		}

		pids := make([]int, 0, len(item.RunningProcesses))
		for _, p := range item.RunningProcesses {
			pids = append(pids, p.PID)
		}

		outcome := o.Terminator(pids, o.Config.Process.KillTimeout)
		if len(outcome.StillAlive) > 0 {
			failures[item.WorktreePath] = &warperrors.ProcessesRunning{Path: item.WorktreePath, PIDs: outcome.StillAlive}
			continue
		}

		item.Action = cleanplan.ForceRemove
		item.Reason = cleanplan.ReasonKilled
	}
	return failures
}

func (o *Orchestrator) executeReapItem(item cleanplan.Item, flags cleanplan.Flags) ReapItemOutcome {
	if item.Action == cleanplan.Skip {
		return ReapItemOutcome{Item: item, Ran: false}
	}

	force := item.Action == cleanplan.ForceRemove
	if err := o.Gateway.RemoveWorktree(item.WorktreePath, force); err != nil {
		return ReapItemOutcome{Item: item, Ran: true, Error: err}
	}

	if flags.PruneBranches {
		if where, err := o.Gateway.ListWorktrees(); err == nil && branchCheckedOutNowhere(where, item.Branch) {
			if err := o.Gateway.DeleteBranch(item.Branch, force); err != nil {
				return ReapItemOutcome{Item: item, Ran: true, Error: fmt.Errorf("remove succeeded but branch delete failed: %w", err)}
			}
		}
	}

	return ReapItemOutcome{Item: item, Ran: true}
}

func branchCheckedOutNowhere(records []gitgateway.WorktreeRecord, branch string) bool {
	for _, r := range records {
		if r.Branch == branch {
			return false
		}
	}
	return true
}
