//go:build !linux

package devio

import (
	"fmt"
	"os"
)

// blockDeviceSize has no portable implementation outside Linux; block
// special files must be resized via an image file on other platforms.
func blockDeviceSize(f *os.File) (int64, error) {
	return 0, fmt.Errorf("devio: cannot determine size of block device %s on this platform", f.Name())
}
