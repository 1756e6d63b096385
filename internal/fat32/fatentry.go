package fat32

import "encoding/binary"

// FATTable is one FAT loaded into a single contiguous byte buffer, with
// offset arithmetic standing in for cluster-indexed access (§9 "the FAT
// is loaded into a single contiguous byte buffer; cluster-indexed access
// is offset arithmetic"). Entry semantics follow the specification and
// the bit-masking idiom in diskfs/go-diskfs's fat32 table.go
// (isEoc/tableFromBytes32): low 28 bits are the chain link, high 4 bits
// are opaque and must be preserved.
type FATTable struct {
	buf []byte
}

// NewFATTable wraps buf (which must be a multiple of 4 bytes) as a FAT.
func NewFATTable(buf []byte) *FATTable {
	return &FATTable{buf: buf}
}

func (t *FATTable) Bytes() []byte { return t.buf }

func (t *FATTable) NumEntries() uint32 { return uint32(len(t.buf) / 4) }

// Entry returns the raw 32-bit entry for cluster c, high bits included.
func (t *FATTable) Entry(c uint32) uint32 {
	off := c * 4
	return binary.LittleEndian.Uint32(t.buf[off : off+4])
}

// SetEntry writes the low 28 bits of value into cluster c's entry,
// preserving whatever was in the high 4 bits.
func (t *FATTable) SetEntry(c uint32, value uint32) {
	off := c * 4
	cur := binary.LittleEndian.Uint32(t.buf[off : off+4])
	next := (cur &^ EntryMask) | (value & EntryMask)
	binary.LittleEndian.PutUint32(t.buf[off:off+4], next)
}

// Link returns only the low-28-bit chain link for cluster c.
func (t *FATTable) Link(c uint32) uint32 { return t.Entry(c) & EntryMask }

func (t *FATTable) IsFree(c uint32) bool { return t.Link(c) == EntryFree }
func (t *FATTable) IsBad(c uint32) bool  { return t.Link(c) == EntryBad }
func (t *FATTable) IsEOC(c uint32) bool  { return t.Link(c) >= EntryEOCMin }
