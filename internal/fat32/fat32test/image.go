// Package fat32test builds minimal, valid in-memory FAT32 images for
// exercising the resize engine without a real block device. Grounded on
// dargueta-disko's testing.LoadDiskImage, which backs its test fixtures
// with a bytesextra.NewReadWriteSeeker over a plain byte slice.
package fat32test

import (
	"encoding/binary"

	"github.com/blockkit/fat32grow/internal/devio"
)

// Boot-sector and FSInfo field offsets, duplicated here rather than
// imported from internal/fat32: this package builds raw images from
// nothing, including fields the engine's accessors deliberately have no
// setter for (I1 invariant fields never change once a filesystem
// exists, so production code never needs to write them).
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

	offFSInfoLead  = 0x000
	offFSInfoStruc = 0x1E4
	offFreeCount   = 0x1E8
	offNextFree    = 0x1EC
	offFSInfoTrail = 0x1FC

	sectorSize = 512

	fsInfoLeadSig  = 0x41615252
	fsInfoStrucSig = 0x61417272
	fsInfoTrailSig = 0xAA550000

	entryEOC  = 0x0FFFFFF8
	entryFree = 0x00000000
)

// Config describes the geometry of a generated image.
type Config struct {
	BytesPerSector    uint32
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	FATSize           uint32 // sectors
	TotalSectors      uint32
	RootCluster       uint32
	FSInfoSector      uint16
	BackupBootSector  uint16

	// UsedClusters lists the data-cluster indices (>= 2) to mark
	// non-free in the FAT and fill with a deterministic payload
	// pattern, for payload-preservation tests. RootCluster is always
	// marked used regardless of this list.
	UsedClusters []uint32
}

// Default returns a small, valid 512-byte-sector configuration: 32
// reserved sectors, 2 FATs, 1 sector per cluster, sized comfortably
// above the FAT32 65525-cluster floor.
func Default() Config {
	// sectorsPerCluster of 1 keeps the generated image's data region as
	// small as the FAT32 cluster-count floor allows, since the image is
	// held entirely in memory for tests.
	const spc = 1
	const reserved = 32
	const numFATs = 2
	const bps = 512

	// Pick a FAT size generous enough to index a filesystem just over
	// the cluster-count floor, then derive matching total sectors.
	const dataClusters = 65600
	fatSize := minFATSize(dataClusters, bps)
	fds := uint64(reserved) + uint64(numFATs)*uint64(fatSize)
	total := fds + dataClusters*spc

	return Config{
		BytesPerSector:    bps,
		SectorsPerCluster: spc,
		ReservedSectors:   reserved,
		NumFATs:           numFATs,
		FATSize:           fatSize,
		TotalSectors:      uint32(total),
		RootCluster:       2,
		FSInfoSector:      1,
		BackupBootSector:  6,
	}
}

func minFATSize(dataClusters uint64, bps uint32) uint32 {
	entriesPerSector := uint64(bps) / 4
	entries := dataClusters + 2
	return uint32((entries + entriesPerSector - 1) / entriesPerSector)
}

// FirstDataSector returns where cluster 2 begins for cfg.
func (cfg Config) FirstDataSector() uint64 {
	return uint64(cfg.ReservedSectors) + uint64(cfg.NumFATs)*uint64(cfg.FATSize)
}

// DataClusters returns how many data clusters cfg's total sectors support.
func (cfg Config) DataClusters() uint64 {
	return (uint64(cfg.TotalSectors) - cfg.FirstDataSector()) / uint64(cfg.SectorsPerCluster)
}

// ClusterOffset returns the byte offset of cluster c's first sector.
func (cfg Config) ClusterOffset(c uint32) int64 {
	sector := cfg.FirstDataSector() + uint64(c-2)*uint64(cfg.SectorsPerCluster)
	return int64(sector) * int64(cfg.BytesPerSector)
}

// Build renders cfg into a complete byte image: boot sector, backup
// boot sector, FSInfo, both FATs, and a data region with the requested
// clusters marked used and filled with a per-cluster payload pattern
// (byte value = cluster index mod 256), everything else zeroed.
func Build(cfg Config) []byte {
	img := make([]byte, uint64(cfg.TotalSectors)*uint64(cfg.BytesPerSector))

	writeBootSector(img[0:sectorSize], cfg)
	backupOff := uint64(cfg.BackupBootSector) * uint64(cfg.BytesPerSector)
	copy(img[backupOff:backupOff+sectorSize], img[0:sectorSize])

	fsInfoOff := uint64(cfg.FSInfoSector) * uint64(cfg.BytesPerSector)
	writeFSInfo(img[fsInfoOff:fsInfoOff+sectorSize], cfg)

	used := map[uint32]bool{cfg.RootCluster: true}
	for _, c := range cfg.UsedClusters {
		used[c] = true
	}

	fat1Off := uint64(cfg.ReservedSectors) * uint64(cfg.BytesPerSector)
	fatBytes := uint64(cfg.FATSize) * uint64(cfg.BytesPerSector)
	fat1 := img[fat1Off : fat1Off+fatBytes]
	binary.LittleEndian.PutUint32(fat1[0:4], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(fat1[4:8], 0x0FFFFFFF)
	for c := range used {
		binary.LittleEndian.PutUint32(fat1[c*4:c*4+4], entryEOC)
	}

	fat2Off := fat1Off + fatBytes
	copy(img[fat2Off:fat2Off+fatBytes], fat1)

	for c := range used {
		off := cfg.ClusterOffset(c)
		clusterSize := int64(cfg.SectorsPerCluster) * int64(cfg.BytesPerSector)
		pattern := byte(c % 256)
		for i := int64(0); i < clusterSize; i++ {
			img[off+i] = pattern
		}
	}

	return img
}

func writeBootSector(buf []byte, cfg Config) {
	binary.LittleEndian.PutUint16(buf[offBytesPerSector:], uint16(cfg.BytesPerSector))
	buf[offSectorsPerCluster] = cfg.SectorsPerCluster
	binary.LittleEndian.PutUint16(buf[offReservedSectors:], cfg.ReservedSectors)
	buf[offNumFATs] = cfg.NumFATs
	binary.LittleEndian.PutUint16(buf[offTotalSectors16:], 0)
	binary.LittleEndian.PutUint32(buf[offTotalSectors32:], cfg.TotalSectors)
	binary.LittleEndian.PutUint32(buf[offFATSize32:], cfg.FATSize)
	binary.LittleEndian.PutUint32(buf[offRootCluster:], cfg.RootCluster)
	binary.LittleEndian.PutUint16(buf[offFSInfoSector:], cfg.FSInfoSector)
	binary.LittleEndian.PutUint16(buf[offBackupBootSector:], cfg.BackupBootSector)
	binary.LittleEndian.PutUint16(buf[offSignature:], 0xAA55)
}

func writeFSInfo(buf []byte, cfg Config) {
	binary.LittleEndian.PutUint32(buf[offFSInfoLead:], fsInfoLeadSig)
	binary.LittleEndian.PutUint32(buf[offFSInfoStruc:], fsInfoStrucSig)
	freeCount := uint32(cfg.DataClusters()) - uint32(len(cfg.UsedClusters)) - 1
	binary.LittleEndian.PutUint32(buf[offFreeCount:], freeCount)
	binary.LittleEndian.PutUint32(buf[offNextFree:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(buf[offFSInfoTrail:], fsInfoTrailSig)
}

// NewDevice builds cfg's image and wraps it in an in-memory Device,
// returning both so tests can inspect the raw bytes after an operation.
func NewDevice(cfg Config) (*devio.MemoryDevice, []byte) {
	img := Build(cfg)
	return devio.NewMemoryDevice(img), img
}
