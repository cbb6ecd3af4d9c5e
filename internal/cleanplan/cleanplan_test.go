package cleanplan

import (
	"testing"

	"github.com/gitwarp/warp/internal/gitgateway"
	"github.com/gitwarp/warp/internal/procscan"
)

func noProcesses(string) ([]procscan.Record, error) { return nil, nil }

func TestAssignActionSkipsOnProcessesWithoutForceOrKill(t *testing.T) {
	action, reason := assignAction(true, false, Flags{})
	if action != Skip || reason != ReasonHasProcesses {
		t.Fatalf("expected skip/has-processes, got %v/%v", action, reason)
	}
}

func TestAssignActionSkipsOnDirtyWithoutForce(t *testing.T) {
	action, reason := assignAction(false, true, Flags{})
	if action != Skip || reason != ReasonDirty {
		t.Fatalf("expected skip/dirty, got %v/%v", action, reason)
	}
}

func TestAssignActionForceRemovesDirtyWhenForced(t *testing.T) {
	action, _ := assignAction(false, true, Flags{Force: true})
	if action != ForceRemove {
		t.Fatalf("expected force_remove, got %v", action)
	}
}

func TestAssignActionRemovesCleanIdleWorktree(t *testing.T) {
	action, reason := assignAction(false, false, Flags{})
	if action != Remove || reason != ReasonClean {
		t.Fatalf("expected remove/clean, got %v/%v", action, reason)
	}
}

func TestAssignActionStaysSkipWhenKillAuthorizedButNotYetTerminated(t *testing.T) {
	// Kill only authorizes the Orchestrator to attempt termination; the
	// planner itself must never promote to ForceRemove before that
	// termination has actually happened (see orchestrator.promoteKilledItems).
	action, reason := assignAction(true, false, Flags{Kill: true})
	if action != Skip || reason != ReasonHasProcesses {
		t.Fatalf("expected skip/has-processes pending termination, got %v/%v", action, reason)
	}
}

func TestSelectCandidatesExcludesPrimary(t *testing.T) {
	records := []gitgateway.WorktreeRecord{
		{Path: "/repo", Branch: "main", IsPrimary: true},
		{Path: "/repo/worktrees/feature", Branch: "feature"},
	}
	classes := map[string]gitgateway.Classification{"main": gitgateway.Primary, "feature": gitgateway.Merged}

	out := selectCandidates(records, classes, All, nil)
	if len(out) != 1 || out[0].Path != "/repo/worktrees/feature" {
		t.Fatalf("expected primary excluded, got %+v", out)
	}
}

func TestSelectCandidatesFiltersByPolicy(t *testing.T) {
	records := []gitgateway.WorktreeRecord{
		{Path: "/repo/worktrees/a", Branch: "a"},
		{Path: "/repo/worktrees/b", Branch: "b"},
	}
	classes := map[string]gitgateway.Classification{"a": gitgateway.Merged, "b": gitgateway.Remoteless}

	merged := selectCandidates(records, classes, Merged, nil)
	if len(merged) != 1 || merged[0].Branch != "a" {
		t.Fatalf("expected only branch a selected under Merged policy, got %+v", merged)
	}

	remoteless := selectCandidates(records, classes, Remoteless, nil)
	if len(remoteless) != 1 || remoteless[0].Branch != "b" {
		t.Fatalf("expected only branch b selected under Remoteless policy, got %+v", remoteless)
	}
}

func TestSelectCandidatesInteractiveHonorsSelection(t *testing.T) {
	records := []gitgateway.WorktreeRecord{
		{Path: "/repo/worktrees/a", Branch: "a"},
		{Path: "/repo/worktrees/b", Branch: "b"},
	}
	classes := map[string]gitgateway.Classification{"a": gitgateway.Active, "b": gitgateway.Active}

	out := selectCandidates(records, classes, Interactive, []string{"/repo/worktrees/b"})
	if len(out) != 1 || out[0].Branch != "b" {
		t.Fatalf("expected only selected worktree b, got %+v", out)
	}
}

func TestSummarizeCountsActionsAndProcesses(t *testing.T) {
	items := []Item{
		{Action: Remove, Classification: gitgateway.Merged, RunningProcesses: nil},
		{Action: Skip, Classification: gitgateway.Remoteless, RunningProcesses: []procscan.Record{{PID: 1}}},
	}
	summary := summarize(items)
	if summary.CountByAction[Remove] != 1 || summary.CountByAction[Skip] != 1 {
		t.Fatalf("unexpected action counts: %+v", summary.CountByAction)
	}
	if len(summary.AllProcesses) != 1 {
		t.Fatalf("expected 1 aggregated process record, got %d", len(summary.AllProcesses))
	}
}
