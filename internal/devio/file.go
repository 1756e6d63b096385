package devio

import (
	"fmt"
	"os"
)

// FileDevice is a Device backed by an *os.File: either a raw block
// device (/dev/sdb1) or a plain disk-image file. Modeled on the
// teacher's DiskInfo (internal/disk/stat.go in the source repo): open
// read-write or read-only as the caller asks, and resolve the device's
// true length with an OS-specific ioctl when stat() reports zero (the
// case for block special files).
type FileDevice struct {
	path     string
	file     *os.File
	readOnly bool
}

// OpenFile opens path with O_RDONLY when readOnly is true and with
// O_RDWR otherwise; there is no fallback from one mode to the other.
// The info subcommand always opens read-only; the resize subcommand
// opens read-only only for --dry-run.
func OpenFile(path string, readOnly bool) (*FileDevice, error) {
	flag := os.O_RDONLY
	if !readOnly {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("devio: open %q: %w", path, err)
	}
	return &FileDevice{path: path, file: f, readOnly: readOnly}, nil
}

func (d *FileDevice) ReadAt(p []byte, off int64) (int, error) {
	return d.file.ReadAt(p, off)
}

func (d *FileDevice) WriteAt(p []byte, off int64) (int, error) {
	if d.readOnly {
		return 0, fmt.Errorf("devio: %q opened read-only", d.path)
	}
	return d.file.WriteAt(p, off)
}

func (d *FileDevice) Sync() error {
	if d.readOnly {
		return nil
	}
	return d.file.Sync()
}

func (d *FileDevice) Close() error {
	return d.file.Close()
}

// Size returns the device's length in bytes. For a regular file this is
// just Stat().Size(); for a block device that reports 0 via stat(2) it
// falls back to blockDeviceSize, an OS-specific ioctl implemented in
// file_linux.go / file_other.go.
func (d *FileDevice) Size() (int64, error) {
	fi, err := d.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("devio: stat %q: %w", d.path, err)
	}
	if fi.Mode()&os.ModeDevice == 0 || fi.Size() > 0 {
		return fi.Size(), nil
	}
	return blockDeviceSize(d.file)
}
