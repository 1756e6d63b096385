// Package devio provides the raw sector-addressed block device
// collaborator that the resize engine in internal/fat32 is built
// against. None of this package's logic is part of the resize engine
// itself; the engine only depends on the Device interface below, and
// needs a concrete implementation to be exercised end to end.
package devio

import "io"

// Device is the minimal contract the resize engine requires of its
// backing store: random-access byte reads and writes, a real durability
// barrier, and a way to learn the current length. Sector addressing is
// layered on top of this by internal/fat32; Device itself only knows
// about bytes.
type Device interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the current length of the device in bytes.
	Size() (int64, error)

	// Sync flushes all prior writes to durable storage. It must not
	// return until the writes are guaranteed to survive a crash.
	Sync() error

	Close() error
}
