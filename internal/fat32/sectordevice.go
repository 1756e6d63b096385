package fat32

import "github.com/blockkit/fat32grow/internal/devio"

// SectorDevice layers the specification's sector-addressed contract
// (open/length_in_sectors/read_sectors/write_sectors/sync, §6) on top
// of the byte-addressed devio.Device collaborator. It is the only place
// in this package that converts between sector indices and byte
// offsets.
type SectorDevice struct {
	dev            devio.Device
	bytesPerSector uint32
}

// NewSectorDevice wraps dev, addressing it in bytesPerSector-sized
// sectors.
func NewSectorDevice(dev devio.Device, bytesPerSector uint32) *SectorDevice {
	return &SectorDevice{dev: dev, bytesPerSector: bytesPerSector}
}

func (s *SectorDevice) BytesPerSector() uint32 { return s.bytesPerSector }

// LengthInSectors returns the device's current length, truncated down
// to a whole number of sectors.
func (s *SectorDevice) LengthInSectors() (uint64, error) {
	size, err := s.dev.Size()
	if err != nil {
		return 0, IoError("length", 0, err)
	}
	return uint64(size) / uint64(s.bytesPerSector), nil
}

// ReadSectors reads count sectors starting at start into buf, which
// must be exactly count*bytesPerSector bytes.
func (s *SectorDevice) ReadSectors(start uint64, count uint32, buf []byte) error {
	want := int(count) * int(s.bytesPerSector)
	if len(buf) != want {
		return newErr(KindIO, "read buffer size mismatch")
	}
	off := int64(start) * int64(s.bytesPerSector)
	if _, err := s.dev.ReadAt(buf, off); err != nil {
		return IoError("read", start, err)
	}
	return nil
}

// WriteSectors writes count sectors of buf to start.
func (s *SectorDevice) WriteSectors(start uint64, count uint32, buf []byte) error {
	want := int(count) * int(s.bytesPerSector)
	if len(buf) != want {
		return newErr(KindIO, "write buffer size mismatch")
	}
	off := int64(start) * int64(s.bytesPerSector)
	if _, err := s.dev.WriteAt(buf, off); err != nil {
		return IoError("write", start, err)
	}
	return nil
}

// Sync is a durability barrier: it must not return until every prior
// write issued through this device is guaranteed to survive a crash
// (O1-O4).
func (s *SectorDevice) Sync() error {
	if err := s.dev.Sync(); err != nil {
		return IoError("sync", 0, err)
	}
	return nil
}

// ReadSectorAt is a convenience for reading a single sector.
func (s *SectorDevice) ReadSectorAt(sector uint64) ([]byte, error) {
	buf := make([]byte, s.bytesPerSector)
	if err := s.ReadSectors(sector, 1, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteSectorAt is a convenience for writing a single sector.
func (s *SectorDevice) WriteSectorAt(sector uint64, buf []byte) error {
	return s.WriteSectors(sector, 1, buf)
}
