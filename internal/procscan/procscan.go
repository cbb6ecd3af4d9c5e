// Package procscan is the Process Scanner: enumerating processes whose
// working directory is rooted inside a candidate directory, and
// terminating them gracefully-then-forcefully on request. It is built on
// the standard library and golang.org/x/sys/unix rather than a process
// library: on Linux it reads /proc directly, on Darwin it shells out to
// ps and lsof. See DESIGN.md.
package procscan

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Record describes one process. It is rebuilt fresh on every scan;
// nothing about it is cached across calls.
type Record struct {
	PID     int
	Name    string
	Command string
	Cwd     string
	CPUPct  float64
	RSS     uint64
}

// Outcome is the per-pid result of a Terminate call.
type Outcome struct {
	TerminatedGracefully []int
	ForceKilled          []int
	StillAlive           []int
	NotFound             []int
}

// DefaultGrace is the minimum termination grace period applied when
// configuration supplies none or something shorter.
const DefaultGrace = 500 * time.Millisecond

// Scan returns every process whose canonicalized cwd equals path or is a
// descendant of it. Processes whose cwd cannot be read (permission denied,
// zombie) are silently skipped, so a process the scanner cannot observe
// is not reported.
func Scan(path string) ([]Record, error) {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonical = path
	}

	all, err := listProcesses()
	if err != nil {
		return nil, err
	}

	var matched []Record
	for _, r := range all {
		if r.Cwd == "" {
			continue
		}
		if r.Cwd == canonical || strings.HasPrefix(r.Cwd, canonical+string(filepath.Separator)) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Terminate sends SIGTERM to every pid, polls up to grace for exit
// (flooring at DefaultGrace), then SIGKILLs any survivor. This function
// itself never decides to run: the Orchestrator only calls it when the
// caller explicitly authorized termination.
func Terminate(pids []int, grace time.Duration) Outcome {
	if grace < DefaultGrace {
		grace = DefaultGrace
	}

	var out Outcome
	alive := make(map[int]bool, len(pids))

	for _, pid := range pids {
		if !processExists(pid) {
			out.NotFound = append(out.NotFound, pid)
			continue
		}
		_ = unix.Kill(pid, unix.SIGTERM)
		alive[pid] = true
	}

	deadline := time.Now().Add(grace)
	for len(alive) > 0 && time.Now().Before(deadline) {
		time.Sleep(25 * time.Millisecond)
		for pid := range alive {
			if !processExists(pid) {
				out.TerminatedGracefully = append(out.TerminatedGracefully, pid)
				delete(alive, pid)
			}
		}
	}

	for pid := range alive {
		_ = unix.Kill(pid, unix.SIGKILL)
		time.Sleep(25 * time.Millisecond)
		if processExists(pid) {
			out.StillAlive = append(out.StillAlive, pid)
		} else {
			out.ForceKilled = append(out.ForceKilled, pid)
		}
	}

	return out
}

func processExists(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
