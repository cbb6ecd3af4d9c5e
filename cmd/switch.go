package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitwarp/warp/internal/orchestrator"
)

var (
	switchPath  string
	switchNoCoW bool
)

var switchCmd = &cobra.Command{
	Use:   "switch <branch>",
	Short: "Materialize or switch to a worktree for branch",
	Args:  cobra.ExactArgs(1),
	RunE:  runSwitch,
}

func init() {
	switchCmd.Flags().StringVar(&switchPath, "path", "", "explicit target worktree path")
	switchCmd.Flags().BoolVar(&switchNoCoW, "no-cow", false, "skip the copy-on-write path and use a regular git worktree")
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	o, err := bootstrap()
	if err != nil {
		return err
	}

	result, err := o.Materialize(args[0], orchestrator.MaterializeOptions{
		Path:   switchPath,
		NoCoW:  switchNoCoW,
		DryRun: flagDryRun,
	})
	if err != nil {
		return err
	}

	if result.DryRunPlan != "" {
		fmt.Println(result.DryRunPlan)
		return nil
	}

	verb := "Created"
	if result.WasSwitch {
		verb = "Switched to"
	}
	fmt.Printf("%s worktree for %q at %s (%s)\n", verb, args[0], result.TargetPath, result.Method)
	return nil
}
