package fat32

import "encoding/binary"

// BootSectorSize is the fixed size of the FAT32 boot sector, backup
// boot sector, and FSInfo sector.
const BootSectorSize = 512

// Boot sector field offsets, per the specification's data model (§3).
// The boot sector is kept as an opaque byte buffer (not unmarshaled
// into a Go struct) precisely because the spec treats it that way: a
// bit-exact accessor layer is the whole point, and round-tripping
// through a tagged struct would risk losing bytes the engine must
// preserve verbatim (BIOS jump code, OEM name, the 420 bytes of
// boot-strap code before the signature).
const (
	offBytesPerSector    = 0x0B
	offSectorsPerCluster = 0x0D
	offReservedSectors   = 0x0E
	offNumFATs           = 0x10
	offTotalSectors16    = 0x13
	offTotalSectors32    = 0x20
	offFATSize32         = 0x24
	offRootCluster       = 0x2C
	offFSInfoSector      = 0x30
	offBackupBootSector  = 0x32
	offSignature         = 0x1FE
)

// BootSector is a thin, bit-exact accessor over a 512-byte boot sector
// buffer. Grounded on the teacher's FatBootSector (internal/disk/fat.go
// in the source repo), but kept as raw bytes with Get/Set methods
// instead of a binary.Read-unmarshaled struct, because the engine must
// round-trip every byte it doesn't explicitly touch (I1).
type BootSector struct {
	buf [BootSectorSize]byte
}

// ParseBootSector copies data (which must be exactly BootSectorSize
// bytes) into a new BootSector.
func ParseBootSector(data []byte) (*BootSector, error) {
	if len(data) != BootSectorSize {
		return nil, newErr(KindNotFat32, "boot sector must be 512 bytes")
	}
	bs := &BootSector{}
	copy(bs.buf[:], data)
	return bs, nil
}

// Bytes returns the raw 512-byte buffer, ready to be written back to
// disk.
func (b *BootSector) Bytes() []byte { return b.buf[:] }

func (b *BootSector) BytesPerSector() uint16 {
	return binary.LittleEndian.Uint16(b.buf[offBytesPerSector:])
}

func (b *BootSector) SectorsPerCluster() uint8 { return b.buf[offSectorsPerCluster] }

func (b *BootSector) ReservedSectors() uint16 {
	return binary.LittleEndian.Uint16(b.buf[offReservedSectors:])
}

func (b *BootSector) NumFATs() uint8 { return b.buf[offNumFATs] }

func (b *BootSector) TotalSectors16() uint16 {
	return binary.LittleEndian.Uint16(b.buf[offTotalSectors16:])
}

func (b *BootSector) TotalSectors32() uint32 {
	return binary.LittleEndian.Uint32(b.buf[offTotalSectors32:])
}

func (b *BootSector) SetTotalSectors32(v uint32) {
	binary.LittleEndian.PutUint32(b.buf[offTotalSectors32:], v)
}

func (b *BootSector) FATSize32() uint32 {
	return binary.LittleEndian.Uint32(b.buf[offFATSize32:])
}

func (b *BootSector) SetFATSize32(v uint32) {
	binary.LittleEndian.PutUint32(b.buf[offFATSize32:], v)
}

func (b *BootSector) RootCluster() uint32 {
	return binary.LittleEndian.Uint32(b.buf[offRootCluster:])
}

func (b *BootSector) FSInfoSector() uint16 {
	return binary.LittleEndian.Uint16(b.buf[offFSInfoSector:])
}

func (b *BootSector) BackupBootSector() uint16 {
	return binary.LittleEndian.Uint16(b.buf[offBackupBootSector:])
}

func (b *BootSector) Signature() uint16 {
	return binary.LittleEndian.Uint16(b.buf[offSignature:])
}

func (b *BootSector) SetSignature(v uint16) {
	binary.LittleEndian.PutUint16(b.buf[offSignature:], v)
}

// InvalidateSignature zeroes the boot signature, entering the "danger
// zone" (§4.5 step 6) where any other FAT tool will reject the
// filesystem.
func (b *BootSector) InvalidateSignature() { b.SetSignature(0x0000) }

// RestoreSignature writes back the standard 0xAA55 marker.
func (b *BootSector) RestoreSignature() { b.SetSignature(0xAA55) }

// FirstDataSector is the physical sector at which cluster 2 begins.
func (b *BootSector) FirstDataSector() uint64 {
	return FirstDataSector(uint64(b.ReservedSectors()), uint64(b.NumFATs()), uint64(b.FATSize32()))
}

// DataClusters is how many whole data clusters this geometry supports
// given totalSectors.
func (b *BootSector) DataClusters(totalSectors uint64) uint64 {
	return DataClusters(totalSectors, b.FirstDataSector(), uint64(b.SectorsPerCluster()))
}
