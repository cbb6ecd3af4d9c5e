package cmd

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gitwarp/warp/internal/config"
)

// configCmd prints the fully resolved configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
