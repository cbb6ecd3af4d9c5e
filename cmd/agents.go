package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// agentsCmd is a thin placeholder for a future collaborator that inspects
// agent-specific worktree state; not implemented yet.
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agent sessions attached to worktrees (not yet implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("agents: no agent integration configured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
