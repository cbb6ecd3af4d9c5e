package cowclone

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// isCoWCapable reports whether path sits on an APFS volume, the one
// filesystem this iteration supports.
func isCoWCapable(path string) (bool, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return false, err
	}
	fstype := unix.ByteSliceToString((*[256]byte)(unsafe.Pointer(&stat.Fstypename[0]))[:])
	return fstype == "apfs", nil
}

// cloneDirectory performs the atomic-at-root clone using APFS's native
// clonefile syscall rather than shelling out to `cp -c -R`.
func cloneDirectory(src, dest string) error {
	if err := unix.Clonefile(src, dest, unix.CLONE_NOFOLLOW); err != nil {
		if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EXDEV) {
			return fmt.Errorf("clonefile not supported: %w", err)
		}
		return fmt.Errorf("clonefile failed: %w", err)
	}
	return nil
}

func isUnsupportedClone(err error) bool {
	return errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EXDEV)
}
