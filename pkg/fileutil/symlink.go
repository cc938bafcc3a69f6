package fileutil

import (
	"os"
)

// IsSymbolicLink reports whether path is a symbolic link. The
// link itself is inspected rather than its target.
func IsSymbolicLink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true, nil
	}
	return false, nil
}
