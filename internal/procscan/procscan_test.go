package procscan

import (
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestScanFindsChildProcessByCwd(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("process scanning unsupported on this platform")
	}

	dir := t.TempDir()
	cmd := exec.Command("sleep", "5")
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	var records []Record
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var err error
		records, err = Scan(dir)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if len(records) > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	found := false
	for _, r := range records {
		if r.PID == cmd.Process.Pid {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected scan of %s to include pid %d, got %+v", dir, cmd.Process.Pid, records)
	}
}

func TestScanExcludesUnrelatedDirectory(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("process scanning unsupported on this platform")
	}

	dir := t.TempDir()
	other := t.TempDir()
	cmd := exec.Command("sleep", "5")
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	time.Sleep(100 * time.Millisecond)
	records, err := Scan(other)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, r := range records {
		if r.PID == cmd.Process.Pid {
			t.Fatalf("did not expect pid %d under unrelated directory %s", cmd.Process.Pid, other)
		}
	}
}

func TestTerminateGracefullyStopsChild(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("process scanning unsupported on this platform")
	}

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	pid := cmd.Process.Pid
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	outcome := Terminate([]int{pid}, 200*time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("child process was not reaped after Terminate")
	}

	if len(outcome.TerminatedGracefully) == 0 && len(outcome.ForceKilled) == 0 {
		t.Fatalf("expected child to be terminated or force-killed, got %+v", outcome)
	}
	if processExists(pid) {
		t.Fatalf("expected pid %d to no longer exist", pid)
	}
}

func TestTerminateReportsNotFoundForUnknownPID(t *testing.T) {
	outcome := Terminate([]int{999999}, 100*time.Millisecond)
	if len(outcome.NotFound) != 1 || outcome.NotFound[0] != 999999 {
		t.Fatalf("expected pid 999999 reported NotFound, got %+v", outcome)
	}
}
