//go:build !darwin

package cowclone

import "fmt"

// isCoWCapable reports false on every non-Darwin platform: Linux overlayfs
// and Windows CoW are out of scope for this iteration.
func isCoWCapable(path string) (bool, error) {
	return false, nil
}

func cloneDirectory(src, dest string) error {
	return fmt.Errorf("copy-on-write cloning is not implemented on this platform")
}

func isUnsupportedClone(err error) bool {
	return true
}
