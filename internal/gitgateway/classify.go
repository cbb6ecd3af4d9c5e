package gitgateway

import (
	"fmt"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gitwarp/warp/internal/gitexec"
)

// Classification is one of the four states a local branch can be in
// relative to the default branch and its remote tracking state.
type Classification int

const (
	Active Classification = iota
	Merged
	Remoteless
	Primary
)

func (c Classification) String() string {
	switch c {
	case Merged:
		return "Merged"
	case Remoteless:
		return "Remoteless"
	case Primary:
		return "Primary"
	default:
		return "Active"
	}
}

// ClassifyBranches computes {branch: Classification} for every local
// branch. When autoFetch is true, `git fetch --prune` runs first so
// Remoteless reflects the latest remote state; whether to fetch is an
// explicit caller (Orchestrator) decision, never inferred here.
func (g *Gateway) ClassifyBranches(defaultBranch string, autoFetch bool) (map[string]Classification, error) {
	if autoFetch {
		if _, err := gitexec.Run(g.Repo.PrimaryPath, "fetch", "--all", "--prune"); err != nil {
			return nil, err
		}
	}

	defaultRef, err := g.repo.Reference(plumbing.NewBranchReferenceName(defaultBranch), true)
	if err != nil {
		return nil, fmt.Errorf("resolve default branch %s: %w", defaultBranch, err)
	}
	defaultCommit, err := g.repo.CommitObject(defaultRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("load default branch commit: %w", err)
	}

	cfg, err := g.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("load repository config: %w", err)
	}
	remotes, err := g.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	remoteNames := make([]string, 0, len(remotes))
	for _, r := range remotes {
		remoteNames = append(remoteNames, r.Config().Name)
	}

	iter, err := g.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list local branches: %w", err)
	}
	defer iter.Close()

	result := make(map[string]Classification)
	walkErr := iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()

		if name == defaultBranch {
			result[name] = Primary
			return nil
		}

		commit, err := g.repo.CommitObject(ref.Hash())
		if err != nil {
			result[name] = Active
			return nil
		}

		merged, err := commit.IsAncestor(defaultCommit)
		if err == nil && merged {
			result[name] = Merged
			return nil
		}

		if g.hasNoUpstream(name, cfg, remoteNames) {
			result[name] = Remoteless
			return nil
		}

		result[name] = Active
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return result, nil
}

func (g *Gateway) hasNoUpstream(branch string, cfg *config.Config, remoteNames []string) bool {
	if b, ok := cfg.Branches[branch]; ok && b != nil && b.Remote != "" {
		return false
	}
	for _, remote := range remoteNames {
		ref := plumbing.NewRemoteReferenceName(remote, branch)
		if _, err := g.repo.Reference(ref, true); err == nil {
			return false
		}
	}
	return true
}
