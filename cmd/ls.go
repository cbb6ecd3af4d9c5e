package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List worktrees",
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	o, err := bootstrap()
	if err != nil {
		return err
	}

	records, err := o.Gateway.ListWorktrees()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "PATH\tBRANCH\tHEAD\tPRIMARY")
	for _, r := range records {
		head := r.HeadCommit
		if len(head) > 8 {
			head = head[:8]
		}
		primary := ""
		if r.IsPrimary {
			primary = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, r.Branch, head, primary)
	}
	return nil
}
