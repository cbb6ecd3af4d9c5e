// Package cmd implements the warp CLI: a thin spf13/cobra wrapper over
// internal/orchestrator.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitwarp/warp/internal/config"
	"github.com/gitwarp/warp/internal/gitgateway"
	"github.com/gitwarp/warp/internal/logx"
	"github.com/gitwarp/warp/internal/orchestrator"
	"github.com/gitwarp/warp/internal/warperrors"
)

var (
	flagDryRun      bool
	flagDebug       bool
	flagAutoConfirm bool
	flagTerminal    string
	flagConfigPath  string
)

// rootCmd is the base command when warp is invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:     "warp",
	Short:   "Instant Git worktrees on copy-on-write filesystems",
	Version: "0.1.0",
	Long: `warp materializes Git worktrees instantly on copy-on-write filesystems
and manages their lifecycle: creation, switching, and safe cleanup.`,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return 0
}

// exitCodeFor maps an error returned by a subcommand to its process exit
// code. Usage errors reported by cobra (unknown flags, wrong argument
// count) are not told apart from other failures and map to 1.
func exitCodeFor(err error) int {
	var notARepo *warperrors.NotARepository
	if errors.As(err, &notARepo) {
		return 3
	}

	var checkedOut *warperrors.BranchAlreadyCheckedOut
	var dirty *warperrors.WorktreeDirty
	var notEmpty *warperrors.TargetNotEmpty
	if errors.As(err, &checkedOut) || errors.As(err, &dirty) || errors.As(err, &notEmpty) {
		return 4
	}

	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "show what would be done without executing")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagAutoConfirm, "auto-confirm", false, "skip interactive confirmation")
	rootCmd.PersistentFlags().StringVar(&flagTerminal, "terminal", "", "terminal integration mode: tab, window, inplace, echo")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to config.toml (defaults to the user config directory)")
}

// bootstrap loads configuration, builds the ambient logger, opens the Git
// Gateway rooted at the current working directory, and composes an
// Orchestrator — the sequence every subcommand needs before doing work.
func bootstrap() (*orchestrator.Orchestrator, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagAutoConfirm {
		cfg.AutoConfirm = true
	}
	if flagTerminal != "" {
		cfg.TerminalMode = flagTerminal
	}

	logger := logx.New(cfg.Logging)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve current directory: %w", err)
	}

	gw, err := gitgateway.Open(cwd)
	if err != nil {
		return nil, err
	}

	return orchestrator.New(gw, cfg, logger), nil
}
