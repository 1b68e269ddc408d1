//go:build linux
// +build linux

package safety

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func moveNoReplace(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		if info, lerr := lstat(dst); lerr == nil && caseOnlyRename(src, dst, info) {
			return os.Rename(src, dst)
		}
		return fmt.Errorf("%w: %s", ErrTargetExists, dst)
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOSYS):
		// Filesystem without RENAME_NOREPLACE support.
		return moveChecked(src, dst)
	}
	return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
}
