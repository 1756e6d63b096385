package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/internal/devio"
	"github.com/blockkit/fat32grow/internal/fat32"
)

func TestSectorDeviceReadWriteRoundTrip(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 4096))
	dev := fat32.NewSectorDevice(mem, 512)

	n, err := dev.LengthInSectors()
	require.NoError(t, err)
	require.EqualValues(t, 8, n)

	payload := make([]byte, 512)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, dev.WriteSectorAt(3, payload))

	got, err := dev.ReadSectorAt(3)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestSectorDeviceRejectsMismatchedBuffer(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 4096))
	dev := fat32.NewSectorDevice(mem, 512)

	err := dev.WriteSectors(0, 2, make([]byte, 10))
	require.Error(t, err)
}

func TestSectorDeviceMultiSector(t *testing.T) {
	mem := devio.NewMemoryDevice(make([]byte, 4096))
	dev := fat32.NewSectorDevice(mem, 512)

	buf := make([]byte, 1024)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	require.NoError(t, dev.WriteSectors(2, 2, buf))

	got := make([]byte, 1024)
	require.NoError(t, dev.ReadSectors(2, 2, got))
	require.Equal(t, buf, got)
}
