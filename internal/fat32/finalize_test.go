package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/internal/devio"
	"github.com/blockkit/fat32grow/internal/fat32"
	"github.com/blockkit/fat32grow/internal/fat32/fat32test"
)

func TestFinalize_UpdatesBootBackupAndFSInfo(t *testing.T) {
	cfg := fat32test.Default()
	img := fat32test.Build(cfg)
	boot, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)

	mem := devio.NewMemoryDevice(img)
	dev := fat32.NewSectorDevice(mem, cfg.BytesPerSector)

	fsInfoOff := uint64(cfg.FSInfoSector) * uint64(cfg.BytesPerSector)
	fsInfo, err := fat32.ParseFSInfo(img[fsInfoOff : fsInfoOff+512])
	require.NoError(t, err)
	oldFreeCount := fsInfo.FreeCount()

	loaded := &fat32.Loaded{Boot: boot, FSInfo: fsInfo}

	extraClusters := uint64(200000)
	newTotal := uint64(cfg.TotalSectors) + extraClusters*uint64(cfg.SectorsPerCluster)
	mem.Grow(int64(newTotal) * int64(cfg.BytesPerSector))

	plan, err := fat32.ComputePlan(boot, newTotal)
	require.NoError(t, err)

	require.NoError(t, fat32.Finalize(dev, loaded, plan, newTotal))

	gotBootBuf, err := dev.ReadSectorAt(0)
	require.NoError(t, err)
	gotBoot, err := fat32.ParseBootSector(gotBootBuf)
	require.NoError(t, err)
	require.EqualValues(t, plan.NewTotalSectors, gotBoot.TotalSectors32())
	require.EqualValues(t, plan.NewFATSize, gotBoot.FATSize32())
	require.EqualValues(t, 0xAA55, gotBoot.Signature())

	backupBuf, err := dev.ReadSectorAt(uint64(cfg.BackupBootSector))
	require.NoError(t, err)
	require.Equal(t, gotBootBuf, backupBuf, "backup boot sector must be byte-identical to primary (I4/P4)")

	gotFSInfoBuf, err := dev.ReadSectorAt(fsInfoOff / uint64(cfg.BytesPerSector))
	require.NoError(t, err)
	gotFSInfo, err := fat32.ParseFSInfo(gotFSInfoBuf)
	require.NoError(t, err)
	wantFreeCount := oldFreeCount + uint32(plan.NewDataClusters-plan.OldDataClusters)
	require.EqualValues(t, wantFreeCount, gotFSInfo.FreeCount())

	_, hasCk, err := fat32.ReadCheckpoint(dev, newTotal)
	require.NoError(t, err)
	require.False(t, hasCk, "checkpoint must be cleared after finalize")
}
