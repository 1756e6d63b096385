package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/internal/fat32"
	"github.com/blockkit/fat32grow/internal/fat32/fat32test"
)

func TestParseBootSector_WrongSize(t *testing.T) {
	_, err := fat32.ParseBootSector(make([]byte, 511))
	require.Error(t, err)
}

func TestBootSectorAccessors(t *testing.T) {
	cfg := fat32test.Default()
	img := fat32test.Build(cfg)

	boot, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)

	require.EqualValues(t, cfg.BytesPerSector, boot.BytesPerSector())
	require.EqualValues(t, cfg.SectorsPerCluster, boot.SectorsPerCluster())
	require.EqualValues(t, cfg.ReservedSectors, boot.ReservedSectors())
	require.EqualValues(t, cfg.NumFATs, boot.NumFATs())
	require.EqualValues(t, cfg.TotalSectors, boot.TotalSectors32())
	require.EqualValues(t, cfg.FATSize, boot.FATSize32())
	require.EqualValues(t, cfg.RootCluster, boot.RootCluster())
	require.EqualValues(t, cfg.FSInfoSector, boot.FSInfoSector())
	require.EqualValues(t, cfg.BackupBootSector, boot.BackupBootSector())
	require.EqualValues(t, 0xAA55, boot.Signature())
}

func TestBootSectorSignatureRoundTrip(t *testing.T) {
	cfg := fat32test.Default()
	img := fat32test.Build(cfg)
	boot, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)

	original := append([]byte(nil), boot.Bytes()...)

	boot.InvalidateSignature()
	require.EqualValues(t, 0x0000, boot.Signature())

	boot.RestoreSignature()
	require.EqualValues(t, 0xAA55, boot.Signature())
	require.Equal(t, original, boot.Bytes())
}

func TestBootSectorBytesDivergeOnlyAtSignature(t *testing.T) {
	cfg := fat32test.Default()
	img := fat32test.Build(cfg)

	a, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)
	b, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)

	require.Equal(t, a.Bytes(), b.Bytes())

	a.InvalidateSignature()
	require.NotEqual(t, a.Bytes(), b.Bytes())
	require.EqualValues(t, 0xAA55, b.Signature())
	require.EqualValues(t, 0x0000, a.Signature())
}

func TestBootSectorFirstDataSectorAndDataClusters(t *testing.T) {
	cfg := fat32test.Default()
	img := fat32test.Build(cfg)
	boot, err := fat32.ParseBootSector(img[0:512])
	require.NoError(t, err)

	require.Equal(t, cfg.FirstDataSector(), boot.FirstDataSector())
	require.Equal(t, cfg.DataClusters(), boot.DataClusters(uint64(cfg.TotalSectors)))
}
