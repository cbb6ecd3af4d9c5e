package cowclone

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gitwarp/warp/internal/warperrors"
)

func TestCloneUnsupportedOnNonDarwin(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin may support CoW; covered by integration tests on that platform")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatal(err)
	}

	err := Clone(src, dest)
	if err == nil {
		t.Fatal("expected an error on a non-CoW-capable platform")
	}
	var unsupported *warperrors.CoWUnsupported
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected CoWUnsupported, got %T: %v", err, err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination must not exist after an unsupported clone attempt")
	}
}

func TestCloneRejectsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Clone(src, dest); err == nil {
		t.Fatal("expected an error when destination already exists")
	}
}

func TestProberCachesResult(t *testing.T) {
	dir := t.TempDir()
	p := NewProber()

	first, err := p.Supported(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Supported(dir)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected cached probe result to be stable")
	}
}
