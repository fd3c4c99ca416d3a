//go:build unix

package preflight

import "golang.org/x/sys/unix"

func checkAccess(path string, want Access) error {
	mode := uint32(unix.R_OK | unix.X_OK)
	if want == ReadWrite {
		mode |= unix.W_OK
	}
	return unix.Access(path, mode)
}
