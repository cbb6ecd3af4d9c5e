package orchestrator

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// ProgressTracker renders per-stage progress for Materialize: a spinner
// while a stage runs, then a completion line with elapsed time and,
// where the caller has one, a one-line summary of what the stage did
// (such as files rewritten). Spinner and completion lines are shown only
// when the tracker animates; error lines are always printed.
type ProgressTracker struct {
	spinner     *spinner.Spinner
	startTime   time.Time
	showSpinner bool
	stage       string
}

// NewProgressTracker builds a tracker that only animates when stdout is a
// terminal, unless forceShow overrides that.
func NewProgressTracker(forceShow bool) *ProgressTracker {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Color("cyan")

	return &ProgressTracker{
		spinner:     s,
		showSpinner: forceShow || isTerminal(),
	}
}

func (p *ProgressTracker) StartStage(stage string) {
	p.stage = stage
	p.startTime = time.Now()
	if p.showSpinner {
		p.spinner.Suffix = fmt.Sprintf(" %s...", stage)
		p.spinner.Start()
	}
}

func (p *ProgressTracker) FinishStage() {
	p.finish("")
}

// FinishStageWithInfo completes the current stage and appends a short
// summary (e.g. "118/120 files rewritten") produced by the component that
// ran the stage, so the user sees what the stage actually did rather than
// just that it finished.
func (p *ProgressTracker) FinishStageWithInfo(info string) {
	p.finish(info)
}

func (p *ProgressTracker) finish(info string) {
	elapsed := time.Since(p.startTime)
	if p.showSpinner {
		p.spinner.Stop()
	}
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	if !p.showSpinner {
		return
	}
	if info == "" {
		fmt.Printf("✓ %s %s in %v\n", green(p.stage), cyan("completed"), elapsed.Truncate(time.Microsecond))
		return
	}
	fmt.Printf("✓ %s %s %s in %v\n", green(p.stage), yellow(info), cyan("completed"), elapsed.Truncate(time.Microsecond))
}

func (p *ProgressTracker) Error(err error) {
	if p.showSpinner {
		p.spinner.Stop()
	}
	red := color.New(color.FgRed).SprintFunc()
	fmt.Printf("✗ %s %s\n", red("Error:"), err.Error())
}

func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
