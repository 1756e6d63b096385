package fat32

import "encoding/binary"

const (
	fsInfoLeadSig  = 0x41615252
	fsInfoStrucSig = 0x61417272
	fsInfoTrailSig = 0xAA550000
	offFSInfoLead  = 0x000
	offFSInfoStruc = 0x1E4
	offFreeCount   = 0x1E8
	offNextFree    = 0x1EC
	offFSInfoTrail = 0x1FC
)

// FSInfo is a bit-exact accessor over the 512-byte FSInfo sector, same
// rationale as BootSector: kept as raw bytes, not unmarshaled, so every
// byte the engine doesn't touch round-trips unchanged.
type FSInfo struct {
	buf [BootSectorSize]byte
}

// ParseFSInfo copies data into a new FSInfo and verifies its three
// signatures.
func ParseFSInfo(data []byte) (*FSInfo, error) {
	if len(data) != BootSectorSize {
		return nil, newErr(KindBadFsInfo, "FSInfo sector must be 512 bytes")
	}
	fi := &FSInfo{}
	copy(fi.buf[:], data)

	if !fi.signaturesValid() {
		return nil, newErr(KindBadFsInfo, "FSInfo signature mismatch")
	}
	return fi, nil
}

func (f *FSInfo) signaturesValid() bool {
	return binary.LittleEndian.Uint32(f.buf[offFSInfoLead:]) == fsInfoLeadSig &&
		binary.LittleEndian.Uint32(f.buf[offFSInfoStruc:]) == fsInfoStrucSig &&
		binary.LittleEndian.Uint32(f.buf[offFSInfoTrail:]) == fsInfoTrailSig
}

func (f *FSInfo) Bytes() []byte { return f.buf[:] }

func (f *FSInfo) FreeCount() uint32 {
	return binary.LittleEndian.Uint32(f.buf[offFreeCount:])
}

func (f *FSInfo) SetFreeCount(v uint32) {
	binary.LittleEndian.PutUint32(f.buf[offFreeCount:], v)
}

func (f *FSInfo) NextFree() uint32 {
	return binary.LittleEndian.Uint32(f.buf[offNextFree:])
}

// AdjustFreeCount adds delta data clusters to the free count, saturating
// at MaxDataClusters per the finalizer's specification (§4.6 step 4).
// delta may be negative (shrinking is not supported by this tool, but
// the arithmetic is symmetric).
func (f *FSInfo) AdjustFreeCount(delta int64) {
	cur := int64(f.FreeCount())
	next := cur + delta
	if next < 0 {
		next = 0
	}
	if next > MaxDataClusters {
		next = MaxDataClusters
	}
	f.SetFreeCount(uint32(next))
}
