package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// shellConfigCmd is a placeholder: terminal integration (opening
// tabs/windows) is a collaborator concern; the core only passes
// terminal_mode through without interpreting it.
var shellConfigCmd = &cobra.Command{
	Use:   "shell-config",
	Short: "Print shell integration snippet (not yet implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("# shell-config: no integration snippet available yet")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shellConfigCmd)
}
