// Package cleanplan computes the Cleanup Plan: given a selection policy
// and the state exposed by the Git Gateway and Process Scanner, it builds
// the ordered, side-effect-free plan the Orchestrator later executes. No
// filesystem or git mutation happens here.
package cleanplan

import (
	"fmt"
	"sort"

	"github.com/gitwarp/warp/internal/gitgateway"
	"github.com/gitwarp/warp/internal/procscan"
	"github.com/gitwarp/warp/internal/warperrors"
)

// Policy selects which branch classifications are candidates for removal.
type Policy int

const (
	Merged Policy = iota
	Remoteless
	All
	Interactive
)

// Action is the disposition assigned to a single candidate.
type Action int

const (
	Skip Action = iota
	Remove
	ForceRemove
)

func (a Action) String() string {
	switch a {
	case Skip:
		return "skip"
	case Remove:
		return "remove"
	case ForceRemove:
		return "force_remove"
	default:
		return "unknown"
	}
}

// Reason documents why an item received its action.
type Reason string

const (
	ReasonClean            Reason = "clean"
	ReasonMergedBranch     Reason = "merged branch"
	ReasonRemotelessBranch Reason = "remoteless branch"
	ReasonSelected         Reason = "explicitly selected"
	ReasonDirty            Reason = "dirty worktree"
	ReasonHasProcesses     Reason = "running processes"
	ReasonForced           Reason = "forced"
	ReasonKilled           Reason = "processes killed"
)

// Item is one entry of the Cleanup Plan.
type Item struct {
	WorktreePath     string
	Branch           string
	Classification   gitgateway.Classification
	RunningProcesses []procscan.Record
	Action           Action
	Reason           Reason
}

// Summary aggregates plan-level counts for reporting.
type Summary struct {
	CountByAction         map[Action]int
	CountByClassification map[gitgateway.Classification]int
	AllProcesses          []procscan.Record
}

// Plan is the full output of Build: the ordered items plus their summary.
type Plan struct {
	Items   []Item
	Summary Summary
}

// Flags are the cross-cutting cleanup options.
type Flags struct {
	Force         bool
	Kill          bool
	PruneBranches bool
}

// Build computes the Cleanup Plan for the given policy. selection is the
// caller-supplied subset of worktree paths used only when policy ==
// Interactive; it is ignored otherwise.
func Build(gw *gitgateway.Gateway, scanner func(path string) ([]procscan.Record, error), defaultBranch string, autoFetch bool, policy Policy, selection []string, flags Flags) (*Plan, error) {
	records, err := gw.ListWorktrees()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	classes, err := gw.ClassifyBranches(defaultBranch, autoFetch)
	if err != nil {
		return nil, fmt.Errorf("classify branches: %w", err)
	}

	candidates := selectCandidates(records, classes, policy, selection)

	items := make([]Item, 0, len(candidates))
	for _, rec := range candidates {
		if rec.IsPrimary {
			// The primary worktree must never reach candidate selection;
			// reaching here is a bug in selectCandidates, not a user error.
			panic(&warperrors.InvariantViolation{What: "primary worktree reached cleanup candidate selection"})
		}

		item := Item{
			WorktreePath:   rec.Path,
			Branch:         rec.Branch,
			Classification: classes[rec.Branch],
		}

		procs, err := scanner(rec.Path)
		if err != nil {
			return nil, fmt.Errorf("scan processes under %s: %w", rec.Path, err)
		}
		item.RunningProcesses = procs

		dirty, err := gw.IsDirty(rec.Path)
		if err != nil {
			return nil, fmt.Errorf("check dirtiness of %s: %w", rec.Path, err)
		}

		item.Action, item.Reason = assignAction(len(procs) > 0, dirty, flags)
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].WorktreePath < items[j].WorktreePath })

	return &Plan{Items: items, Summary: summarize(items)}, nil
}

func selectCandidates(records []gitgateway.WorktreeRecord, classes map[string]gitgateway.Classification, policy Policy, selection []string) []gitgateway.WorktreeRecord {
	selected := make(map[string]bool, len(selection))
	for _, p := range selection {
		selected[p] = true
	}

	var out []gitgateway.WorktreeRecord
	for _, rec := range records {
		if rec.IsPrimary {
			continue
		}
		switch policy {
		case Merged:
			if classes[rec.Branch] == gitgateway.Merged {
				out = append(out, rec)
			}
		case Remoteless:
			if classes[rec.Branch] == gitgateway.Remoteless {
				out = append(out, rec)
			}
		case All:
			out = append(out, rec)
		case Interactive:
			if selected[rec.Path] {
				out = append(out, rec)
			}
		}
	}
	return out
}

// assignAction never treats kill-authorization alone as license to remove a
// worktree with live processes still attached: Kill only authorizes the
// Orchestrator to attempt termination first. An item stays Skip/
// ReasonHasProcesses here even with flags.Kill set; the Orchestrator
// promotes it to ForceRemove only after it has actually terminated the
// processes (see orchestrator.promoteKilledItems).
func assignAction(hasProcesses, dirty bool, flags Flags) (Action, Reason) {
	if hasProcesses && !flags.Force {
		return Skip, ReasonHasProcesses
	}
	if dirty && !flags.Force {
		return Skip, ReasonDirty
	}
	if flags.Force || flags.Kill {
		return ForceRemove, ReasonForced
	}
	return Remove, ReasonClean
}

func summarize(items []Item) Summary {
	s := Summary{
		CountByAction:         make(map[Action]int),
		CountByClassification: make(map[gitgateway.Classification]int),
	}
	for _, it := range items {
		s.CountByAction[it.Action]++
		s.CountByClassification[it.Classification]++
		s.AllProcesses = append(s.AllProcesses, it.RunningProcesses...)
	}
	return s
}
