package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitwarp/warp/internal/cleanplan"
	"github.com/gitwarp/warp/internal/orchestrator"
)

var (
	cleanupMode  string
	cleanupForce bool
	cleanupKill  bool
	cleanupPrune bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove worktrees matching a selection policy",
	RunE:  runCleanup,
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupMode, "mode", "merged", "selection policy: merged, remoteless, all, interactive")
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "ignore dirty worktrees and running processes")
	cleanupCmd.Flags().BoolVar(&cleanupKill, "kill", false, "authorize terminating processes rooted in a candidate worktree")
	cleanupCmd.Flags().BoolVar(&cleanupPrune, "prune-branches", false, "also delete the local branch for removed worktrees")
	rootCmd.AddCommand(cleanupCmd)
}

func parsePolicy(mode string) (cleanplan.Policy, error) {
	switch mode {
	case "merged":
		return cleanplan.Merged, nil
	case "remoteless":
		return cleanplan.Remoteless, nil
	case "all":
		return cleanplan.All, nil
	case "interactive":
		return cleanplan.Interactive, nil
	default:
		return 0, fmt.Errorf("unknown cleanup mode %q", mode)
	}
}

func runCleanup(cmd *cobra.Command, args []string) error {
	policy, err := parsePolicy(cleanupMode)
	if err != nil {
		return err
	}

	o, err := bootstrap()
	if err != nil {
		return err
	}

	flags := cleanplan.Flags{Force: cleanupForce, Kill: cleanupKill, PruneBranches: cleanupPrune}

	var selection []string
	if policy == cleanplan.Interactive {
		selection, err = promptSelection(o)
		if err != nil {
			return err
		}
		if len(selection) == 0 {
			fmt.Println("No worktrees selected; nothing to do.")
			return nil
		}
	}

	if !flagDryRun && !o.Config.AutoConfirm {
		fmt.Printf("Remove worktrees selected by mode %q? [y/N]: ", cleanupMode)
		answer := bufio.NewScanner(os.Stdin)
		if !answer.Scan() || !strings.EqualFold(strings.TrimSpace(answer.Text()), "y") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	report, err := o.Reap(policy, selection, flags, flagDryRun)
	if err != nil {
		return err
	}

	renderCleanupReport(report)
	return nil
}

// promptSelection lists every non-primary worktree and reads a
// space-separated list of 1-based indices from stdin. The planner's
// Interactive policy only needs the resulting path list; how it is
// gathered is a CLI concern.
func promptSelection(o *orchestrator.Orchestrator) ([]string, error) {
	records, err := o.Gateway.ListWorktrees()
	if err != nil {
		return nil, err
	}

	var candidates []string
	fmt.Println("Select worktrees to clean up:")
	for _, r := range records {
		if r.IsPrimary {
			continue
		}
		candidates = append(candidates, r.Path)
		fmt.Printf("  [%d] %s (%s)\n", len(candidates), r.Path, r.Branch)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	fmt.Print("Enter numbers separated by spaces (blank for none): ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return nil, nil
	}

	var selected []string
	for _, field := range strings.Fields(scanner.Text()) {
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 1 || idx > len(candidates) {
			return nil, fmt.Errorf("invalid selection %q", field)
		}
		selected = append(selected, candidates[idx-1])
	}
	return selected, nil
}

func renderCleanupReport(report *orchestrator.ReapReport) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if report.DryRun {
		fmt.Printf("Dry run: %d candidate(s)\n", len(report.Plan.Items))
		for _, item := range report.Plan.Items {
			fmt.Printf("  %s [%s] %s -> %s (%s)\n", item.WorktreePath, item.Branch, item.Classification, item.Action, item.Reason)
		}
		return
	}

	removed, skipped := 0, 0
	for _, outcome := range report.Outcomes {
		switch {
		case !outcome.Ran:
			skipped++
			fmt.Printf("%s %s (%s)\n", yellow("skip"), outcome.Item.WorktreePath, outcome.Item.Reason)
		case outcome.Error != nil:
			fmt.Printf("%s %s: %v\n", red("error"), outcome.Item.WorktreePath, outcome.Error)
		default:
			removed++
			fmt.Printf("%s %s\n", green("removed"), outcome.Item.WorktreePath)
		}
	}

	fmt.Printf("\n%d removed, %d skipped\n", removed, skipped)
}
