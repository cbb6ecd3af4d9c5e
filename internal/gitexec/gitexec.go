// Package gitexec wraps delegated `git` subprocess invocations. It is the
// single place the Git Gateway shells out to the git binary for the
// worktree-mutation subcommands that go-git's library surface does not
// cover.
package gitexec

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gitwarp/warp/internal/warperrors"
)

// Run executes `git <args...>` in dir and returns trimmed stdout. On
// failure it returns a *warperrors.GitDelegationFailed carrying stderr
// verbatim.
func Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &warperrors.GitDelegationFailed{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RunAllowFail behaves like Run but swallows a non-zero exit: it is for
// best-effort cleanup calls (e.g. `worktree remove` on a path that may not
// be registered yet) where the caller has nothing useful to do with a
// failure, following the established "ignore error if worktree doesn't
// exist" idiom for this kind of speculative cleanup call.
func RunAllowFail(dir string, args ...string) string {
	out, _ := Run(dir, args...)
	return out
}

// Lines splits git porcelain output into non-empty lines.
func Lines(output string) []string {
	if output == "" {
		return nil
	}
	raw := strings.Split(output, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// QuoteArgs renders args for error messages and debug logs.
func QuoteArgs(args []string) string {
	return fmt.Sprintf("git %s", strings.Join(args, " "))
}
