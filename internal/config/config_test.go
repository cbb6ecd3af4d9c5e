package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Git.DefaultBranch != "main" {
		t.Fatalf("expected default branch main, got %s", cfg.Git.DefaultBranch)
	}
	if !cfg.UseCoW {
		t.Fatal("expected use_cow true by default")
	}
	if cfg.Process.KillTimeout.Seconds() != 5 {
		t.Fatalf("expected default kill timeout 5s, got %v", cfg.Process.KillTimeout)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
use_cow = false
worktrees_path = "/tmp/wt"

[git]
default_branch = "develop"
auto_fetch = true

[process]
kill_timeout = 30
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UseCoW {
		t.Fatal("expected use_cow overridden to false")
	}
	if cfg.Git.DefaultBranch != "develop" {
		t.Fatalf("expected default_branch develop, got %s", cfg.Git.DefaultBranch)
	}
	if !cfg.Git.AutoFetch {
		t.Fatal("expected auto_fetch true")
	}
	if cfg.Process.KillTimeout.Seconds() != 30 {
		t.Fatalf("expected kill_timeout 30s, got %v", cfg.Process.KillTimeout)
	}
	// Unset fields keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default logging level, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("GITWARP_GIT_DEFAULT_BRANCH", "trunk")
	t.Setenv("GITWARP_USE_COW", "false")

	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "use_cow = true\n\n[git]\ndefault_branch = \"develop\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Git.DefaultBranch != "trunk" {
		t.Fatalf("expected env override trunk, got %s", cfg.Git.DefaultBranch)
	}
	if cfg.UseCoW {
		t.Fatal("expected env override to disable use_cow")
	}
}
