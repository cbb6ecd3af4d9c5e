//go:build linux

package procscan

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// listProcesses enumerates /proc/<pid> entries directly: cwd comes from
// the /proc/<pid>/cwd symlink, command line from /proc/<pid>/cmdline, and
// name from /proc/<pid>/comm. Entries we cannot read (permission denied,
// already-exited zombie) are skipped rather than reported as errors.
func listProcesses() ([]Record, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}

		cwd, err := os.Readlink(filepath.Join("/proc", e.Name(), "cwd"))
		if err != nil {
			continue
		}

		name := readComm(pid)
		command := readCmdline(pid)
		if command == "" {
			command = name
		}

		records = append(records, Record{
			PID:     pid,
			Name:    name,
			Command: command,
			Cwd:     cwd,
		})
	}

	return records, nil
}

func readComm(pid int) string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readCmdline(pid int) string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline"))
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	return strings.Join(parts, " ")
}
