//go:build !linux && !darwin && !freebsd

package bridge

import "os"

// accessRights approximates access from the owner permission bits.
func accessRights(path string) (read, write, exec bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false, false
	}
	mode := info.Mode().Perm()
	return mode&0400 != 0, mode&0200 != 0, mode&0100 != 0 || info.IsDir()
}
