// Package gitgateway handles repository discovery, worktree enumeration,
// creation and removal, and branch classification. Reads are backed by
// go-git; worktree mutation is delegated to the git binary, since the
// `worktree`/`branch` subcommands have no stable library equivalent.
package gitgateway

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/gitwarp/warp/internal/gitexec"
	"github.com/gitwarp/warp/internal/warperrors"
)

// Repository anchors the common directory (shared metadata store) and the
// primary working directory.
type Repository struct {
	CommonDir   string
	PrimaryPath string
}

// Gateway is the Git Gateway handle, opened against one repository.
type Gateway struct {
	repo *git.Repository
	Repo Repository
}

// Open discovers the repository root by ascending from dir and returns a
// Gateway bound to it.
func Open(dir string) (*Gateway, error) {
	toplevel, err := gitexec.Run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, &warperrors.NotARepository{Path: dir}
	}
	commonDir, err := gitexec.Run(dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return nil, &warperrors.NotARepository{Path: dir}
	}

	primaryPath, err := canonicalize(toplevel)
	if err != nil {
		return nil, fmt.Errorf("canonicalize repository root %s: %w", toplevel, err)
	}

	repo, err := git.PlainOpenWithOptions(primaryPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", primaryPath, err)
	}

	return &Gateway{
		repo: repo,
		Repo: Repository{
			CommonDir:   commonDir,
			PrimaryPath: primaryPath,
		},
	}, nil
}

// canonicalize resolves symlinks and returns an absolute path. Worktree
// paths are always compared in canonical form to avoid false negatives
// from symlinked parents.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	// The final path component may not exist yet (a materialization
	// target); canonicalize the parent and re-append it.
	dir, base := filepath.Split(abs)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return abs, nil
	}
	return filepath.Join(resolvedDir, base), nil
}

// IsPrimary reports whether path (already canonicalized) is the primary
// worktree of this repository.
func (g *Gateway) IsPrimary(path string) bool {
	return path == g.Repo.PrimaryPath
}

// pathExistsNonEmpty reports whether path exists and has at least one entry.
func pathExistsNonEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// isUnderneath reports whether candidate is path or a descendant of it.
func isUnderneath(path, candidate string) bool {
	rel, err := filepath.Rel(path, candidate)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && rel != "")
}
