//go:build linux

package devio

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// blockDeviceSize resolves the size of a Linux block special file via
// the BLKGETSIZE64 ioctl, since stat(2) reports 0 for /dev/sdXN nodes.
func blockDeviceSize(f *os.File) (int64, error) {
	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, fmt.Errorf("devio: BLKGETSIZE64 %s: %w", f.Name(), errno)
	}
	return int64(size), nil
}
