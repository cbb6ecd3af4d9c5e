// Package cowclone is the FS-CoW Cloner: it detects whether a path lives
// on a copy-on-write-capable filesystem and, when it does, clones a
// directory tree atomically at the destination root.
package cowclone

import (
	"fmt"
	"os"
	"sync"

	"github.com/gitwarp/warp/internal/warperrors"
)

// Prober probes and caches filesystem CoW-capability per source path, for
// the lifetime of a single command invocation.
type Prober struct {
	cache sync.Map // string -> bool
}

// NewProber returns a Prober with an empty cache.
func NewProber() *Prober {
	return &Prober{}
}

// Supported reports whether src's filesystem supports copy-on-write
// cloning, consulting and populating the per-source cache.
func (p *Prober) Supported(src string) (bool, error) {
	if v, ok := p.cache.Load(src); ok {
		return v.(bool), nil
	}
	ok, err := isCoWCapable(src)
	if err != nil {
		return false, err
	}
	p.cache.Store(src, ok)
	return ok, nil
}

// Clone materializes a copy-on-write clone of src at dest. Preconditions:
// src exists and is a directory, dest does not exist, and dest's parent is
// writable. The clone is atomic at dest: on any failure dest is removed
// before Clone returns, and dest never exists in a half-written state.
func Clone(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", src)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("destination already exists: %s", dest)
	}

	supported, err := isCoWCapable(src)
	if err != nil {
		return fmt.Errorf("probe filesystem for %s: %w", src, err)
	}
	if !supported {
		return &warperrors.CoWUnsupported{Path: src}
	}

	if err := cloneDirectory(src, dest); err != nil {
		os.RemoveAll(dest)
		if isUnsupportedClone(err) {
			return &warperrors.CoWUnsupported{Path: src, Reason: err.Error()}
		}
		return fmt.Errorf("clone %s to %s: %w", src, dest, err)
	}

	return nil
}
