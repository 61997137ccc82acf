//go:build !windows

package export

import (
	stderrors "errors"
	"os"
	"syscall"

	"shellsmith/internal/errors"
)

// openFileNoFollow opens a file for writing with O_NOFOLLOW to prevent
// symlink attacks on the final path component. O_CLOEXEC prevents FD
// leaks across exec.
//
// O_NOFOLLOW only protects the final component. Directory components are
// covered by ValidatePath, which requires files to sit directly in an
// allowed directory so no intermediate component can be swapped for a
// symlink.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewExport("cannot write to symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
