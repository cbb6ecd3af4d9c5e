package pathrewrite

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRewriteReplacesOccurrencesInIgnoredFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "venv/\n")
	writeFile(t, filepath.Join(root, "venv", "bin", "activate"), "#!/old/path/venv/bin/python\nVIRTUAL_ENV=/old/path\n")
	writeFile(t, filepath.Join(root, "tracked.txt"), "/old/path is not rewritten here\n")

	stats, err := Rewrite(root, "/old/path", "/new/path")
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if stats.FilesRewritten != 1 {
		t.Fatalf("expected exactly 1 rewritten file, got %d (scanned=%d errs=%v)", stats.FilesRewritten, stats.FilesScanned, stats.Errors)
	}

	rewritten, err := os.ReadFile(filepath.Join(root, "venv", "bin", "activate"))
	if err != nil {
		t.Fatal(err)
	}
	want := "#!/new/path/venv/bin/python\nVIRTUAL_ENV=/new/path\n"
	if string(rewritten) != want {
		t.Fatalf("got %q want %q", rewritten, want)
	}

	tracked, err := os.ReadFile(filepath.Join(root, "tracked.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(tracked) != "/old/path is not rewritten here\n" {
		t.Fatalf("tracked (non-ignored) file must be left untouched, got %q", tracked)
	}
}

func TestRewriteSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "bin/\n")
	binPath := filepath.Join(root, "bin", "tool")
	if err := os.MkdirAll(filepath.Dir(binPath), 0o755); err != nil {
		t.Fatal(err)
	}
	content := append([]byte("/old/path"), 0x00, 0x01, 0x02)
	if err := os.WriteFile(binPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := Rewrite(root, "/old/path", "/new/path")
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesRewritten != 0 {
		t.Fatalf("expected binary file to be skipped, rewrote %d", stats.FilesRewritten)
	}

	after, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(content) {
		t.Fatal("binary file content must be unchanged")
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "cfg\n")
	writeFile(t, filepath.Join(root, "cfg"), "path=/old/path/data\n")

	if _, err := Rewrite(root, "/old/path", "/new/path"); err != nil {
		t.Fatal(err)
	}
	once, err := os.ReadFile(filepath.Join(root, "cfg"))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := Rewrite(root, "/old/path", "/new/path")
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesRewritten != 0 {
		t.Fatalf("second pass should rewrite nothing (no more /old/path occurrences), got %d", stats.FilesRewritten)
	}

	twice, err := os.ReadFile(filepath.Join(root, "cfg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(once) != string(twice) {
		t.Fatal("rewrite must be idempotent")
	}
}

func TestRewritePreservesSizeWhenNoOccurrence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "data\n")
	content := "nothing interesting here\n"
	writeFile(t, filepath.Join(root, "data"), content)

	info, err := os.Stat(filepath.Join(root, "data"))
	if err != nil {
		t.Fatal(err)
	}
	before := info.Size()

	if _, err := Rewrite(root, "/no/such/prefix", "/dest"); err != nil {
		t.Fatal(err)
	}

	info, err = os.Stat(filepath.Join(root, "data"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != before {
		t.Fatalf("size changed from %d to %d for a file with no occurrences", before, info.Size())
	}
}

func TestIsBinaryDetectsNulInFirst8KiB(t *testing.T) {
	if !isBinary([]byte("hello\x00world")) {
		t.Fatal("expected NUL byte to be classified as binary")
	}
	if isBinary([]byte("hello world, no nul bytes here")) {
		t.Fatal("expected plain text to be classified as text")
	}
}
