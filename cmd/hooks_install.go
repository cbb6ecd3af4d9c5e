package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// hooksInstallCmd is a placeholder: installing shell/editor hooks is a
// collaborator concern with no core algorithmic content.
var hooksInstallCmd = &cobra.Command{
	Use:   "hooks-install",
	Short: "Install shell integration hooks (not yet implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("hooks-install: no hooks available for this shell yet")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hooksInstallCmd)
}
