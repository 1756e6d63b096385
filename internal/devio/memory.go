package devio

import (
	"io"
	"sync"

	"github.com/xaionaro-go/bytesextra"
)

// MemoryDevice is a Device backed entirely by an in-memory byte slice.
// It exists so the resize engine and its tests can be driven without a
// real file or block device: the test suite builds a small FAT32 image
// as a []byte (see internal/fat32/fat32test) and resizes it in place,
// then diffs bytes directly against expected output instead of
// shelling out to a reference fsck tool.
//
// Modeled on dargueta/disko's testing.LoadDiskImage helper, which wraps
// a decompressed image with bytesextra.NewReadWriteSeeker to get an
// io.ReadWriteSeeker over a plain []byte.
type MemoryDevice struct {
	mu   sync.Mutex
	rws  io.ReadWriteSeeker
	size int64
}

// NewMemoryDevice wraps buf as a Device. buf is used directly, not
// copied; growing the device beyond len(buf) is done by the caller via
// Grow before the resize runs, mirroring how a real disk image is
// enlarged by appending zeros before the tool is invoked.
func NewMemoryDevice(buf []byte) *MemoryDevice {
	return &MemoryDevice{
		rws:  bytesextra.NewReadWriteSeeker(buf),
		size: int64(len(buf)),
	}
}

// Grow replaces the underlying buffer with a larger one, zero-filling
// the new tail, simulating a backing image/partition having been
// enlarged out of band before the tool runs.
func (m *MemoryDevice) Grow(newSize int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, newSize)
	old := make([]byte, m.size)
	_, _ = m.rws.Seek(0, io.SeekStart)
	_, _ = io.ReadFull(m.rws, old)
	copy(buf, old)

	m.rws = bytesextra.NewReadWriteSeeker(buf)
	m.size = newSize
}

// Bytes returns a copy of the full backing buffer, useful for hash
// comparisons in dry-run tests.
func (m *MemoryDevice) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, m.size)
	_, _ = m.rws.Seek(0, io.SeekStart)
	_, _ = io.ReadFull(m.rws, buf)
	return buf
}

func (m *MemoryDevice) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.rws.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(m.rws, p)
}

func (m *MemoryDevice) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.rws.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return m.rws.Write(p)
}

func (m *MemoryDevice) Size() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size, nil
}

func (m *MemoryDevice) Sync() error { return nil }
func (m *MemoryDevice) Close() error { return nil }
