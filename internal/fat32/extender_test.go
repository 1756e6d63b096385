package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/internal/fat32"
	"github.com/blockkit/fat32grow/internal/fat32/fat32test"
)

func TestExtendFAT_MirrorsAndZeroFills(t *testing.T) {
	cfg := fat32test.Default()
	_, dev, plan, _ := growingPlan(t, cfg)

	require.NoError(t, fat32.ExtendFAT(dev, plan))

	bps := uint64(dev.BytesPerSector())
	fat1Off := plan.ReservedSectors
	fat2Off := plan.ReservedSectors + plan.NewFATSize

	fat1 := make([]byte, plan.NewFATSize*bps)
	require.NoError(t, dev.ReadSectors(fat1Off, uint32(plan.NewFATSize), fat1))

	fat2 := make([]byte, plan.NewFATSize*bps)
	require.NoError(t, dev.ReadSectors(fat2Off, uint32(plan.NewFATSize), fat2))

	require.Equal(t, fat1, fat2, "FAT#1 and FAT#2 must be byte-identical after extension (I2)")

	tail := fat1[plan.OldFATSize*bps:]
	for _, b := range tail {
		require.EqualValues(t, 0, b, "new trailing FAT sectors must be zero-filled")
	}
}

func TestExtendFAT_NoopWhenFATDidNotGrow(t *testing.T) {
	cfg := fat32test.Default()
	img := fat32test.Build(cfg)
	boot, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)

	plan, err := fat32.ComputePlan(boot, uint64(cfg.TotalSectors)+uint64(cfg.SectorsPerCluster))
	require.NoError(t, err)
	require.False(t, plan.FATGrew)

	require.NoError(t, fat32.ExtendFAT(nil, plan))
}
