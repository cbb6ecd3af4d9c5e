// Package orchestrator is the Lifecycle Orchestrator: it composes the
// config, cloner, rewriter, gateway, scanner, and planner components into
// the two top-level operations, Materialize and Reap, enforcing dry-run,
// rollback, and execution ordering around each one.
package orchestrator

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gitwarp/warp/internal/config"
	"github.com/gitwarp/warp/internal/cowclone"
	"github.com/gitwarp/warp/internal/gitgateway"
	"github.com/gitwarp/warp/internal/procscan"
)

// Orchestrator composes the lifecycle components behind the
// Materialize/Reap entry points.
type Orchestrator struct {
	Gateway  *gitgateway.Gateway
	Prober   *cowclone.Prober
	Config   *config.Config
	Logger   *slog.Logger
	Progress *ProgressTracker

	// Scanner is overridable for testing; defaults to procscan.Scan.
	Scanner func(path string) ([]procscan.Record, error)
	// Terminator is overridable for testing; defaults to procscan.Terminate.
	Terminator func(pids []int, grace time.Duration) procscan.Outcome
}

// New builds an Orchestrator over an already-open Gateway.
func New(gw *gitgateway.Gateway, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		Gateway:    gw,
		Prober:     cowclone.NewProber(),
		Config:     cfg,
		Logger:     logger,
		Progress:   NewProgressTracker(false),
		Scanner:    procscan.Scan,
		Terminator: procscan.Terminate,
	}
}

var invalidPathChar = regexp.MustCompile(`[^A-Za-z0-9._/-]`)
var repeatDash = regexp.MustCompile(`-+`)

// sanitizeBranchSegment maps a branch name to a safe path segment:
// characters outside [A-Za-z0-9._/-] become '-', runs of '-' collapse, and
// a leading/trailing/absolute segment is forbidden.
func sanitizeBranchSegment(branch string) string {
	s := invalidPathChar.ReplaceAllString(branch, "-")
	s = repeatDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "/-")
	return s
}
