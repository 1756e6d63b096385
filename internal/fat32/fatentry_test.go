package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/internal/fat32"
)

func TestFATTableEntryRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	table := fat32.NewFATTable(buf)
	require.EqualValues(t, 4, table.NumEntries())

	table.SetEntry(2, 0x1234567)
	require.EqualValues(t, 0x1234567, table.Link(2))
}

func TestFATTableHighBitsPreserved(t *testing.T) {
	buf := make([]byte, 16)
	table := fat32.NewFATTable(buf)

	table.SetEntry(2, 0xF0000005)
	require.EqualValues(t, 0xF0000005&fat32.EntryMask, table.Link(2))

	// The high nibble passed to SetEntry is discarded, not stored: only
	// a prior on-disk high nibble is ever preserved.
	buf[11] |= 0xF0 // on-disk high nibble of entry 2
	table.SetEntry(2, 0x0000000A)
	entry := table.Entry(2)
	require.EqualValues(t, 0x0000000A, entry&fat32.EntryMask)
	require.EqualValues(t, 0xF, entry>>28)
}

func TestFATTableFreeBadEOC(t *testing.T) {
	buf := make([]byte, 20)
	table := fat32.NewFATTable(buf)

	table.SetEntry(2, fat32.EntryFree)
	require.True(t, table.IsFree(2))

	table.SetEntry(3, fat32.EntryBad)
	require.True(t, table.IsBad(3))

	table.SetEntry(4, fat32.EntryEOCMin)
	require.True(t, table.IsEOC(4))

	table.SetEntry(4, fat32.EntryEOCMin+5)
	require.True(t, table.IsEOC(4))
}
