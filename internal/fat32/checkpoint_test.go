package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/internal/devio"
	"github.com/blockkit/fat32grow/internal/fat32"
)

func TestCheckpointWriteReadRoundTrip(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 16*512))
	dev := fat32.NewSectorDevice(mem, 512)

	plan := &fat32.Plan{
		OldTotalSectors: 1000,
		NewTotalSectors: 2000,
		OldFATSize:      10,
		NewFATSize:      20,
	}

	require.NoError(t, fat32.WriteCheckpoint(dev, 16, plan, fat32.PhaseDataCopied))

	ck, ok, err := fat32.ReadCheckpoint(dev, 16)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fat32.PhaseDataCopied, ck.Phase)
	require.EqualValues(t, 1000, ck.OldTotalSectors)
	require.EqualValues(t, 2000, ck.NewTotalSectors)
	require.EqualValues(t, 10, ck.OldFATSize)
	require.EqualValues(t, 20, ck.NewFATSize)
	require.True(t, ck.Matches(plan))
}

func TestCheckpointAbsentByDefault(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 16*512))
	dev := fat32.NewSectorDevice(mem, 512)

	_, ok, err := fat32.ReadCheckpoint(dev, 16)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckpointClear(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 16*512))
	dev := fat32.NewSectorDevice(mem, 512)

	plan := &fat32.Plan{OldTotalSectors: 1, NewTotalSectors: 2, OldFATSize: 1, NewFATSize: 2}
	require.NoError(t, fat32.WriteCheckpoint(dev, 16, plan, fat32.PhaseStarted))
	require.NoError(t, fat32.ClearCheckpoint(dev, 16))

	_, ok, err := fat32.ReadCheckpoint(dev, 16)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckpointCorruptedCRCIsAbsent(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 16*512))
	dev := fat32.NewSectorDevice(mem, 512)

	plan := &fat32.Plan{OldTotalSectors: 1, NewTotalSectors: 2, OldFATSize: 1, NewFATSize: 2}
	require.NoError(t, fat32.WriteCheckpoint(dev, 16, plan, fat32.PhaseStarted))

	buf, err := dev.ReadSectorAt(15)
	require.NoError(t, err)
	buf[16] ^= 0xFF // corrupt a data field without touching the CRC
	require.NoError(t, dev.WriteSectorAt(15, buf))

	_, ok, err := fat32.ReadCheckpoint(dev, 16)
	require.NoError(t, err)
	require.False(t, ok)
}
