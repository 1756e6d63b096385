package fat32

import (
	"encoding/binary"
	"hash/crc32"
)

// CheckpointMagic is the hex digits FA32 followed by the ASCII bytes
// "CHKP", most significant byte first. It is stored little-endian, so
// the eight bytes on disk are 50 4B 48 43 32 FA 00 00.
const CheckpointMagic uint64 = 0xFA32_4348_4B50

// Phase is the checkpoint's non-terminal state enum: a small
// enumerated tag for the three durability milestones a resize passes
// through before it is done.
type Phase uint8

const (
	PhaseStarted Phase = iota
	PhaseDataCopied
	PhaseFatWritten
)

func (p Phase) String() string {
	switch p {
	case PhaseStarted:
		return "Started"
	case PhaseDataCopied:
		return "DataCopied"
	case PhaseFatWritten:
		return "FatWritten"
	default:
		return "Unknown"
	}
}

const checkpointRecordSize = 64

// Checkpoint is the durable record written to the last sector of the
// device, recording the most recently completed phase and the resize
// parameters it was computed for, so a resumed run can sanity-check
// itself against the current disk state (§4.5's "sanity gate").
type Checkpoint struct {
	Phase            Phase
	OldTotalSectors  uint32
	NewTotalSectors  uint32
	OldFATSize       uint32
	NewFATSize       uint32
}

// Matches reports whether this checkpoint was computed for the same
// old/new geometry the planner now produces, per the §4.5 sanity gate.
func (c *Checkpoint) Matches(plan *Plan) bool {
	return uint64(c.OldTotalSectors) == plan.OldTotalSectors &&
		uint64(c.NewTotalSectors) == plan.NewTotalSectors &&
		uint64(c.OldFATSize) == plan.OldFATSize &&
		uint64(c.NewFATSize) == plan.NewFATSize
}

func (c *Checkpoint) encode() []byte {
	buf := make([]byte, checkpointRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], CheckpointMagic)
	buf[8] = byte(c.Phase)
	binary.LittleEndian.PutUint32(buf[16:20], c.OldTotalSectors)
	binary.LittleEndian.PutUint32(buf[20:24], c.NewTotalSectors)
	binary.LittleEndian.PutUint32(buf[24:28], c.OldFATSize)
	binary.LittleEndian.PutUint32(buf[28:32], c.NewFATSize)
	binary.LittleEndian.PutUint32(buf[60:64], crc32.ChecksumIEEE(buf[0:60]))
	return buf
}

func decodeCheckpoint(buf []byte) (*Checkpoint, bool) {
	if len(buf) < checkpointRecordSize {
		return nil, false
	}
	if binary.LittleEndian.Uint64(buf[0:8]) != CheckpointMagic {
		return nil, false
	}
	wantCRC := binary.LittleEndian.Uint32(buf[60:64])
	gotCRC := crc32.ChecksumIEEE(buf[0:60])
	if wantCRC != gotCRC {
		return nil, false
	}

	phase := Phase(buf[8])
	if phase != PhaseStarted && phase != PhaseDataCopied && phase != PhaseFatWritten {
		return nil, false
	}

	return &Checkpoint{
		Phase:           phase,
		OldTotalSectors: binary.LittleEndian.Uint32(buf[16:20]),
		NewTotalSectors: binary.LittleEndian.Uint32(buf[20:24]),
		OldFATSize:      binary.LittleEndian.Uint32(buf[24:28]),
		NewFATSize:      binary.LittleEndian.Uint32(buf[28:32]),
	}, true
}

// checkpointSector is the last sector of the device: outside the old
// filesystem's addressable range, but inside the new one's. The
// finalized filesystem never references it until the boot sector is
// updated with the new total sector count.
func checkpointSector(deviceSectors uint64) uint64 {
	return deviceSectors - 1
}

// ReadCheckpoint reads and validates the checkpoint record from the
// last sector of the device. An absent or invalid checkpoint (bad magic
// or CRC) is reported as ok=false, not an error: it just means there is
// no in-progress resize to resume.
func ReadCheckpoint(dev *SectorDevice, deviceSectors uint64) (*Checkpoint, bool, error) {
	sector := checkpointSector(deviceSectors)
	buf, err := dev.ReadSectorAt(sector)
	if err != nil {
		return nil, false, err
	}
	ck, ok := decodeCheckpoint(buf)
	return ck, ok, nil
}

// WriteCheckpoint durably records phase for the given plan.
func WriteCheckpoint(dev *SectorDevice, deviceSectors uint64, plan *Plan, phase Phase) error {
	ck := &Checkpoint{
		Phase:           phase,
		OldTotalSectors: uint32(plan.OldTotalSectors),
		NewTotalSectors: uint32(plan.NewTotalSectors),
		OldFATSize:      uint32(plan.OldFATSize),
		NewFATSize:      uint32(plan.NewFATSize),
	}
	buf := make([]byte, dev.BytesPerSector())
	copy(buf, ck.encode())

	sector := checkpointSector(deviceSectors)
	if err := dev.WriteSectorAt(sector, buf); err != nil {
		return err
	}
	return dev.Sync()
}

// ClearCheckpoint zeroes the checkpoint sector, the last write of a
// successful resize (O4).
func ClearCheckpoint(dev *SectorDevice, deviceSectors uint64) error {
	buf := make([]byte, dev.BytesPerSector())
	sector := checkpointSector(deviceSectors)
	if err := dev.WriteSectorAt(sector, buf); err != nil {
		return err
	}
	return dev.Sync()
}
