// Package config loads git-warp's layered configuration: hardcoded
// defaults, overridden by the user-scope TOML file, overridden by
// GITWARP_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// GitConfig controls the Branch Classifier and its optional pre-classification fetch.
type GitConfig struct {
	DefaultBranch string `toml:"default_branch"`
	AutoFetch     bool   `toml:"auto_fetch"`
	AutoPrune     bool   `toml:"auto_prune"`
}

// ProcessConfig controls the Process Scanner's safety checks and termination grace period.
type ProcessConfig struct {
	CheckProcesses bool          `toml:"check_processes"`
	AutoKill       bool          `toml:"auto_kill"`
	KillTimeout    time.Duration `toml:"-"`
	KillTimeoutSec int           `toml:"kill_timeout"`
}

// LoggingConfig controls the ambient structured logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the fully resolved configuration consumed by the Orchestrator.
type Config struct {
	TerminalMode  string `toml:"terminal_mode"`
	UseCoW        bool   `toml:"use_cow"`
	AutoConfirm   bool   `toml:"auto_confirm"`
	WorktreesPath string `toml:"worktrees_path"`

	Git     GitConfig     `toml:"git"`
	Process ProcessConfig `toml:"process"`
	Logging LoggingConfig `toml:"logging"`
}

// Default returns the hardcoded baseline, layer 1 of the resolution order.
func Default() *Config {
	return &Config{
		TerminalMode: "tab",
		UseCoW:       true,
		AutoConfirm:  false,
		Git: GitConfig{
			DefaultBranch: "main",
			AutoFetch:     false,
			AutoPrune:     false,
		},
		Process: ProcessConfig{
			CheckProcesses: true,
			AutoKill:       false,
			KillTimeout:    5 * time.Second,
			KillTimeoutSec: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// fileConfig mirrors Config but with pointer fields so that Load can tell
// "unset" apart from "explicitly set to the zero value" when merging the
// file layer over the defaults.
type fileConfig struct {
	TerminalMode  *string `toml:"terminal_mode"`
	UseCoW        *bool   `toml:"use_cow"`
	AutoConfirm   *bool   `toml:"auto_confirm"`
	WorktreesPath *string `toml:"worktrees_path"`

	Git struct {
		DefaultBranch *string `toml:"default_branch"`
		AutoFetch     *bool   `toml:"auto_fetch"`
		AutoPrune     *bool   `toml:"auto_prune"`
	} `toml:"git"`

	Process struct {
		CheckProcesses *bool `toml:"check_processes"`
		AutoKill       *bool `toml:"auto_kill"`
		KillTimeout    *int  `toml:"kill_timeout"`
	} `toml:"process"`

	Logging struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
	} `toml:"logging"`
}

// Path returns the default on-disk location of the user-scope config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "git-warp", "config.toml"), nil
}

// Load resolves the three-layer configuration. explicitPath overrides the
// default config file location when non-empty. A file that cannot be read
// at the default location is not an error, it simply means that layer
// contributes nothing; an explicitPath that cannot be read is an error.
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	path := explicitPath
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if data, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		applyFile(cfg, &fc)
	} else if explicitPath != "" {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	cfg.Process.KillTimeout = time.Duration(cfg.Process.KillTimeoutSec) * time.Second

	return cfg, nil
}

func applyFile(dst *Config, src *fileConfig) {
	if src.TerminalMode != nil {
		dst.TerminalMode = *src.TerminalMode
	}
	if src.UseCoW != nil {
		dst.UseCoW = *src.UseCoW
	}
	if src.AutoConfirm != nil {
		dst.AutoConfirm = *src.AutoConfirm
	}
	if src.WorktreesPath != nil {
		dst.WorktreesPath = *src.WorktreesPath
	}
	if src.Git.DefaultBranch != nil {
		dst.Git.DefaultBranch = *src.Git.DefaultBranch
	}
	if src.Git.AutoFetch != nil {
		dst.Git.AutoFetch = *src.Git.AutoFetch
	}
	if src.Git.AutoPrune != nil {
		dst.Git.AutoPrune = *src.Git.AutoPrune
	}
	if src.Process.CheckProcesses != nil {
		dst.Process.CheckProcesses = *src.Process.CheckProcesses
	}
	if src.Process.AutoKill != nil {
		dst.Process.AutoKill = *src.Process.AutoKill
	}
	if src.Process.KillTimeout != nil {
		dst.Process.KillTimeoutSec = *src.Process.KillTimeout
	}
	if src.Logging.Level != nil {
		dst.Logging.Level = *src.Logging.Level
	}
	if src.Logging.Format != nil {
		dst.Logging.Format = *src.Logging.Format
	}
}

// envPrefix is the fixed prefix environment overrides are recognized under.
const envPrefix = "GITWARP_"

func applyEnv(cfg *Config) {
	if v, ok := lookupEnv("TERMINAL_MODE"); ok {
		cfg.TerminalMode = v
	}
	if v, ok := lookupEnvBool("USE_COW"); ok {
		cfg.UseCoW = v
	}
	if v, ok := lookupEnvBool("AUTO_CONFIRM"); ok {
		cfg.AutoConfirm = v
	}
	if v, ok := lookupEnv("WORKTREES_PATH"); ok {
		cfg.WorktreesPath = v
	}
	if v, ok := lookupEnv("GIT_DEFAULT_BRANCH"); ok {
		cfg.Git.DefaultBranch = v
	}
	if v, ok := lookupEnvBool("GIT_AUTO_FETCH"); ok {
		cfg.Git.AutoFetch = v
	}
	if v, ok := lookupEnvBool("GIT_AUTO_PRUNE"); ok {
		cfg.Git.AutoPrune = v
	}
	if v, ok := lookupEnvBool("PROCESS_CHECK_PROCESSES"); ok {
		cfg.Process.CheckProcesses = v
	}
	if v, ok := lookupEnvBool("PROCESS_AUTO_KILL"); ok {
		cfg.Process.AutoKill = v
	}
	if v, ok := lookupEnvInt("PROCESS_KILL_TIMEOUT"); ok {
		cfg.Process.KillTimeoutSec = v
	}
	if v, ok := lookupEnv("LOGGING_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := lookupEnv("LOGGING_FORMAT"); ok {
		cfg.Logging.Format = v
	}
}

func lookupEnv(suffix string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + suffix)
	return v, ok && v != ""
}

func lookupEnvBool(suffix string) (bool, bool) {
	v, ok := lookupEnv(suffix)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

func lookupEnvInt(suffix string) (int, bool) {
	v, ok := lookupEnv(suffix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}
