//go:build linux || darwin || freebsd || netbsd || openbsd

package writer

import "golang.org/x/sys/unix"

// syncDir flushes the directory entry table of dir.
func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
