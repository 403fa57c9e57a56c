//go:build linux || darwin || freebsd

package bridge

import "golang.org/x/sys/unix"

// accessRights asks the kernel whether the calling process may read, write
// or execute path, honouring ownership, ACLs and mount flags.
func accessRights(path string) (read, write, exec bool) {
	read = unix.Access(path, unix.R_OK) == nil
	write = unix.Access(path, unix.W_OK) == nil
	exec = unix.Access(path, unix.X_OK) == nil
	return
}
